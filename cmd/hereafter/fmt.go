package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hereafter/internal/driver"
	"hereafter/internal/format"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <file.js|directory>...",
	Short: "Reprint sources in canonical layout",
	Long: `Fmt reprints every statement structurally. Comments survive only where
they document a statement`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().Bool("check", false, "report files that would change without writing")
	fmtCmd.Flags().Bool("stdout", false, "print formatted sources instead of writing")
	fmtCmd.Flags().Bool("roundtrip", false, "re-parse the output and reject unstable formatting")
	fmtCmd.Flags().Int("indent", 2, "spaces per indentation level")
	fmtCmd.Flags().Bool("tabs", false, "indent with tabs")
}

func runFmt(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	check, _ := flags.GetBool("check")
	stdout, _ := flags.GetBool("stdout")
	roundTrip, _ := flags.GetBool("roundtrip")
	indent, _ := flags.GetInt("indent")
	tabs, _ := flags.GetBool("tabs")
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	results, err := driver.FormatPaths(cmd.Context(), args, driver.FormatOptions{
		Check:          check,
		Stdout:         stdout,
		RoundTrip:      roundTrip,
		MaxDiagnostics: maxDiagnostics,
		Options:        format.Options{IndentWidth: indent, UseTabs: tabs},
		Include:        cfg.Run.Include,
		Exclude:        cfg.Run.Exclude,
	})
	if err != nil {
		return err
	}

	failed, changed := 0, 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Path, r.Err)
		case stdout:
			if _, err := cmd.OutOrStdout().Write(r.Formatted); err != nil {
				return err
			}
		case r.Changed:
			changed++
			fmt.Fprintln(cmd.OutOrStdout(), r.Path)
		}
	}
	if failed > 0 || (check && changed > 0) {
		return errDiagnostics
	}
	return nil
}
