package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hereafter/internal/driver"
	"hereafter/internal/interp"
)

var evalCmd = &cobra.Command{
	Use:   "eval [flags] file.js",
	Short: "Run a file in the built-in evaluator",
	Long: `Eval executes a file and prints its console output. With --direct,
label() and goto() jump natively; with --compiled the jump pass runs first,
so both modes can be compared`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().Bool("direct", false, "execute label/goto natively (default)")
	evalCmd.Flags().Bool("compiled", false, "run the jump pass before evaluating")
	evalCmd.Flags().String("call", "", "global function to call after the top level ran")
	evalCmd.Flags().Int("max-steps", interp.DefaultMaxSteps, "statement budget")
	evalCmd.Flags().Bool("show-source", false, "print the compiled source before running")
	evalCmd.MarkFlagsMutuallyExclusive("direct", "compiled")
	addPassFlags(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	compiled, _ := flags.GetBool("compiled")
	call, _ := flags.GetString("call")
	maxSteps, _ := flags.GetInt("max-steps")
	showSource, _ := flags.GetBool("show-source")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	topts, err := transformOptions(cmd, cfg)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	mode := driver.EvalDirect
	if compiled {
		mode = driver.EvalCompiled
	}
	res, err := driver.Eval(cmd.Context(), args[0], src, cmd.OutOrStdout(), driver.EvalOptions{
		Mode:      mode,
		Transform: topts,
		Call:      call,
		MaxSteps:  maxSteps,
	})
	if res != nil {
		if perr := printDiagnostics(cmd, res.Bag, res.FileSet, "pretty"); perr != nil {
			return perr
		}
		if res.Bag.HasErrors() {
			return errDiagnostics
		}
		if showSource && compiled {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", res.Source)
		}
	}
	if err != nil {
		var rerr *interp.RuntimeError
		if errors.As(err, &rerr) && res != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), rerr.FormatWithFiles(res.FileSet))
			return errDiagnostics
		}
		return err
	}
	if call != "" {
		fmt.Fprintln(cmd.OutOrStdout(), interp.Inspect(res.Value))
	}
	return nil
}
