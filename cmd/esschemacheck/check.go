package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/elastic/elastic-transport-go/v8/elastictransport"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/spf13/cobra"

	schemacheck "github.com/kurakura967/go-elasticsearch-schemacheck"
)

const defaultURL = "http://localhost:9200"

var checkFlags struct {
	dir     string
	url     string
	indices []string
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate cluster indices against a schema directory",
	Long: `Validate the indices of a running cluster against the schema directory.

Each subdirectory of --dir is named after an index and holds a
_mapping.json, _mapping.yml or _mapping.yaml file.

The cluster address is taken from --url, then $ELASTICSEARCH_URL, then
` + defaultURL + `.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkFlags.dir, "dir", "d", "", "schema directory (required)")
	checkCmd.Flags().StringVar(&checkFlags.url, "url", "", "Elasticsearch address")
	checkCmd.Flags().StringSliceVarP(&checkFlags.indices, "index", "i", nil, "only check these indices")
	_ = checkCmd.MarkFlagRequired("dir")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	cfg := elasticsearch.Config{Addresses: []string{clusterURL()}}
	if verbose {
		cfg.Logger = &elastictransport.TextLogger{Output: cmd.ErrOrStderr()}
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("creating Elasticsearch client: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	checker, err := schemacheck.New(client,
		schemacheck.Directory(checkFlags.dir),
		schemacheck.WithContext(ctx),
		schemacheck.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	if len(checkFlags.indices) == 0 {
		err = checker.Check()
	} else {
		var errs []error
		for _, name := range checkFlags.indices {
			if err := checker.CheckIndex(name); err != nil {
				errs = append(errs, err)
			}
		}
		err = errors.Join(errs...)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "all index schemas are valid")
	return nil
}

func clusterURL() string {
	if checkFlags.url != "" {
		return checkFlags.url
	}
	if env := os.Getenv("ELASTICSEARCH_URL"); env != "" {
		return env
	}
	return defaultURL
}
