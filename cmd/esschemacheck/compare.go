package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	schemacheck "github.com/kurakura967/go-elasticsearch-schemacheck"
)

var compareFlags struct {
	expected string
	actual   string
	index    string
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two mapping files",
	Long: `Compare an expected mapping file with an actual one, without a cluster.

Both files hold a mappings object in JSON or YAML, per type or typeless.`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVarP(&compareFlags.expected, "expected", "e", "", "expected mapping file (required)")
	compareCmd.Flags().StringVarP(&compareFlags.actual, "actual", "a", "", "actual mapping file (required)")
	compareCmd.Flags().StringVar(&compareFlags.index, "index", "", "index name used in the report (default: expected file name)")
	_ = compareCmd.MarkFlagRequired("expected")
	_ = compareCmd.MarkFlagRequired("actual")
}

func runCompare(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	name := compareFlags.index
	if name == "" {
		base := filepath.Base(compareFlags.expected)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	expected, err := schemacheck.LoadIndexSchema(compareFlags.expected, name)
	if err != nil {
		return fmt.Errorf("loading expected schema: %w", err)
	}
	actual, err := schemacheck.LoadIndexSchema(compareFlags.actual, name)
	if err != nil {
		return fmt.Errorf("loading actual schema: %w", err)
	}

	v := schemacheck.NewValidator(schemacheck.WithValidatorLogger(logger))
	if err := v.Validate(expected, actual); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "index %q: schemas are compatible\n", name)
	return nil
}
