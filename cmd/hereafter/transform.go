package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"hereafter/internal/config"
	"hereafter/internal/diag"
	"hereafter/internal/driver"
	"hereafter/internal/observ"
	"hereafter/internal/source"
	"hereafter/internal/ui"
)

var transformCmd = &cobra.Command{
	Use:   "transform [flags] <file.js|directory>...",
	Short: "Rewrite fromHere markers and label/goto in place or into --out",
	Long: `Transform runs the cut and jump passes over every source file. A single
file is printed to stdout unless --write or --out is given; directories are
rewritten in place or mirrored under --out`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTransform,
}

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.js|directory>...",
	Short: "Run both passes without writing output",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := transformPaths(cmd, args, false)
		return err
	},
}

func init() {
	for _, cmd := range []*cobra.Command{transformCmd, checkCmd} {
		addPassFlags(cmd)
		addRunFlags(cmd)
		cmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	}
	transformCmd.Flags().StringP("out", "o", "", "mirror transformed files under this directory")
	transformCmd.Flags().BoolP("write", "w", false, "rewrite files in place")
}

func runTransform(cmd *cobra.Command, args []string) error {
	results, err := transformPaths(cmd, args, true)
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("out")
	write, _ := cmd.Flags().GetBool("write")
	single := len(args) == 1 && len(results) == 1 && !isDir(args[0])
	if single && outDir == "" && !write {
		_, err := cmd.OutOrStdout().Write(results[0].Output)
		return err
	}

	root := ""
	if len(args) == 1 && isDir(args[0]) {
		root = args[0]
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	for i := range results {
		dst, err := driver.WriteOutput(&results[i], root, outDir)
		if err != nil {
			return fmt.Errorf("%s: %w", dst, err)
		}
		if !quiet && (results[i].Changed || outDir != "") {
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", dst)
		}
	}
	return nil
}

// transformPaths runs the pipeline over args and prints diagnostics.
// It fails with errDiagnostics when any file has errors.
func transformPaths(cmd *cobra.Command, args []string, needOutput bool) ([]driver.FileResult, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	opts, err := transformOptions(cmd, cfg)
	if err != nil {
		return nil, err
	}
	cache, err := openCache(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	uiFlag, _ := cmd.Flags().GetString("ui")
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return nil, err
	}

	run := driver.RunOptions{
		Jobs:    cfg.Run.Jobs,
		Cache:   cache,
		Include: cfg.Run.Include,
		Exclude: cfg.Run.Exclude,
	}
	timer := observ.NewTimer()
	phase := timer.Begin("transform")
	fs, results, err := runWithProgress(cmd.Context(), cmd.ErrOrStderr(), args, opts, run, cfg, mode)
	timer.End(phase, fmt.Sprintf("%d files", len(results)))
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no source files found")
	}

	format, _ := cmd.Flags().GetString("format")
	failed := 0
	bag := diag.NewBag(0)
	for i := range results {
		if results[i].Failed() {
			failed++
		}
		bag.Merge(results[i].Bag)
	}
	if err := printDiagnostics(cmd, bag, fs, format); err != nil {
		return nil, err
	}
	if opts.Timings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	if !needOutput {
		printCheckSummary(cmd.ErrOrStderr(), results, failed)
	}
	if failed > 0 {
		return results, errDiagnostics
	}
	return results, nil
}

// runWithProgress runs the batch, rendering a progress UI when enabled
// and more than one file is involved.
func runWithProgress(ctx context.Context, out io.Writer, args []string, opts driver.Options, run driver.RunOptions, cfg config.Config, mode uiMode) (*source.FileSet, []driver.FileResult, error) {
	if !shouldUseTUI(mode) {
		return driver.TransformAll(ctx, args, opts, run)
	}
	files, err := driver.ListSources(args, cfg.Run.Include, cfg.Run.Exclude)
	if err != nil || len(files) < 2 {
		return driver.TransformAll(ctx, args, opts, run)
	}
	// два события на файл: чтение не блокирует воркеры
	events := make(chan driver.FileEvent, 2*len(files))
	run.Observer = func(ev driver.FileEvent) { events <- ev }

	var (
		fs      *source.FileSet
		results []driver.FileResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(events)
		var err error
		fs, results, err = driver.TransformAll(gctx, args, opts, run)
		return err
	})
	g.Go(func() error {
		return ui.Run(out, "transform", files, events)
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return fs, results, nil
}

func printCheckSummary(w io.Writer, results []driver.FileResult, failed int) {
	cut, jump, changed := 0, 0, 0
	for _, r := range results {
		cut += r.CutFuncs
		jump += r.JumpFuncs
		if r.Changed {
			changed++
		}
	}
	fmt.Fprintf(w, "%d files: %d would change, %d failed (%d cut, %d jump functions)\n",
		len(results), changed, failed, cut, jump)
}

func isDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}
