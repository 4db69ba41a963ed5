package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	logFormat string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "esschemacheck",
	Short: "Validate Elasticsearch index mappings against expected schemas",
	Long: `esschemacheck compares the mappings of Elasticsearch indices with expected
schemas and reports every mismatch, grouped by mapping, property and field.

Only what the expected schema declares is checked. Mappings, properties and
attributes that exist only in the cluster are ignored.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// newLogger builds the logger selected by the global flags.
func newLogger(w io.Writer) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: slog.LevelWarn}
	if verbose {
		opts.Level = slog.LevelDebug
	}

	switch logFormat {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unsupported log format %q (use text or json)", logFormat)
}
