package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"hereafter/internal/config"
	"hereafter/internal/diag"
	"hereafter/internal/diagfmt"
	"hereafter/internal/driver"
	"hereafter/internal/source"
)

// errDiagnostics marks a run whose files produced error diagnostics; they
// were already printed.
var errDiagnostics = errors.New("errors reported")

func exitCode(err error) int {
	if errors.Is(err, errDiagnostics) {
		return 2
	}
	return 1
}

// addPassFlags registers the flags that override hereafter.toml.
func addPassFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Bool("pad", false, "keep the line count of cut functions")
	flags.Bool("transitive", false, "keep declarations referenced by other kept declarations")
	flags.String("fallthrough", "", "segment fall-through policy (end|next)")
	flags.String("returns", "", "valued returns inside compiled functions (thread|reject)")
	flags.Bool("skip-cut", false, "disable the fromHere pass")
	flags.Bool("skip-jump", false, "disable the label/goto pass")
}

// addRunFlags registers batch flags.
func addRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Int("jobs", 0, "max parallel workers (0=auto)")
	flags.String("cache", "", "result cache directory")
	flags.Bool("no-cache", false, "ignore the configured result cache")
	flags.String("format", "pretty", "diagnostics format (pretty|json)")
	flags.String("path-mode", "auto", "diagnostic paths (auto|absolute|relative|basename)")
	flags.Bool("with-notes", false, "include diagnostic notes in output")
}

// loadConfig reads --config or the nearest project file, then applies
// command-line overrides. Only flags the user set take effect.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("pad") {
		cfg.Cut.Pad, _ = flags.GetBool("pad")
	}
	if flags.Changed("transitive") {
		cfg.Cut.Transitive, _ = flags.GetBool("transitive")
	}
	if flags.Changed("fallthrough") {
		cfg.Jump.Fallthrough, _ = flags.GetString("fallthrough")
	}
	if flags.Changed("returns") {
		cfg.Jump.Returns, _ = flags.GetString("returns")
	}
	if flags.Changed("jobs") {
		cfg.Run.Jobs, _ = flags.GetInt("jobs")
	}
	if flags.Changed("cache") {
		cfg.Run.Cache, _ = flags.GetString("cache")
	}
	if noCache, _ := flags.GetBool("no-cache"); noCache {
		cfg.Run.Cache = ""
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// transformOptions builds pipeline options from config and flags.
func transformOptions(cmd *cobra.Command, cfg config.Config) (driver.Options, error) {
	opts, err := driver.OptionsFromConfig(cfg)
	if err != nil {
		return driver.Options{}, err
	}
	flags := cmd.Flags()
	if flags.Lookup("skip-cut") != nil {
		opts.SkipCut, _ = flags.GetBool("skip-cut")
		opts.SkipJump, _ = flags.GetBool("skip-jump")
	}
	if opts.MaxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return driver.Options{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if opts.Timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return driver.Options{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return opts, nil
}

// openCache opens the configured result cache, relative to the config file.
func openCache(cfg config.Config) (*driver.DiskCache, error) {
	if cfg.Run.Cache == "" {
		return nil, nil
	}
	dir := cfg.Run.Cache
	if !filepath.IsAbs(dir) && cfg.Path != "" {
		dir = filepath.Join(filepath.Dir(cfg.Path), dir)
	}
	return driver.OpenDiskCache(dir, "hereafter")
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
}

// printDiagnostics writes bag to stderr as pretty text or JSON.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet, format string) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	pathMode := diagfmt.PathModeAuto
	if f := cmd.Flags().Lookup("path-mode"); f != nil {
		mode, ok := diagfmt.ParsePathMode(f.Value.String())
		if !ok {
			return fmt.Errorf("invalid --path-mode %q", f.Value.String())
		}
		pathMode = mode
	}
	withNotes, _ := cmd.Flags().GetBool("with-notes")
	baseDir, _ := os.Getwd()

	var w io.Writer = cmd.ErrOrStderr()
	switch format {
	case "pretty":
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			Context:   2,
			PathMode:  pathMode,
			BaseDir:   baseDir,
			ShowNotes: withNotes,
		})
		return nil
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			BaseDir:          baseDir,
			IncludeNotes:     withNotes,
		})
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
