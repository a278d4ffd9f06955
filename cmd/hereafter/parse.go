package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hereafter/internal/diagfmt"
	"hereafter/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.js",
	Short: "Parse a source file and output its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Parse(cmd.Context(), args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if err := printDiagnostics(cmd, result.Bag, result.FileSet, "pretty"); err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errDiagnostics
	}

	switch format {
	case "pretty":
		return diagfmt.FormatASTPretty(cmd.OutOrStdout(), result.Builder, result.FileSet)
	case "json":
		return diagfmt.FormatASTJSON(cmd.OutOrStdout(), result.Builder)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
