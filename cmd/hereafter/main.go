package main

import (
	"os"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"hereafter/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "hereafter",
	Short: "Source-to-source rewriter for fromHere markers and label/goto",
	Long: `hereafter rewrites JavaScript sources: it drops the statements a fromHere()
marker makes unreachable and compiles label()/goto() into a dispatch loop`,
	SilenceUsage:      true,
	PersistentPreRunE: setupRun,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		runCleanup()
	},
}

var setupOnce sync.Once

// setupRoot registers subcommands and persistent flags once.
func setupRoot() *cobra.Command {
	setupOnce.Do(func() {
		// Устанавливаем версию для автоматического флага --version
		rootCmd.Version = version.Version

		// Добавляем команды
		rootCmd.AddCommand(transformCmd)
		rootCmd.AddCommand(checkCmd)
		rootCmd.AddCommand(tokenizeCmd)
		rootCmd.AddCommand(parseCmd)
		rootCmd.AddCommand(fmtCmd)
		rootCmd.AddCommand(evalCmd)
		rootCmd.AddCommand(initCmd)
		rootCmd.AddCommand(versionCmd)

		// Глобальные флаги
		addPersistentFlags(rootCmd)
	})
	return rootCmd
}

// main executes the root command. A failing command exits with status 1,
// or 2 when the inputs produced error diagnostics.
func main() {
	if err := setupRoot().Execute(); err != nil {
		runCleanup()
		os.Exit(exitCode(err))
	}
}

func addPersistentFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	flags.String("config", "", "path to hereafter.toml or hereafter.yaml (default: search upwards)")
	flags.BoolP("verbose", "v", false, "log pass decisions to stderr")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
