package driver

import (
	"bytes"
	"context"
	"errors"
	"os"

	"hereafter/internal/format"
)

// FormatOptions configures code formatting.
type FormatOptions struct {
	Check          bool
	MaxDiagnostics int
	Options        format.Options
	Stdout         bool
	// RoundTrip re-parses the output and rejects unstable formatting.
	RoundTrip bool
	Include   []string
	Exclude   []string
}

// FormatResult captures the result of formatting a single file.
type FormatResult struct {
	Path      string
	Changed   bool
	Err       error
	Formatted []byte
}

// FormatPaths formats provided files or directories.
// When opts.Check is true, files are not modified; Changed indicates whether formatting
// would update the file contents. When opts.Stdout is true, formatted content is returned
// in the results without touching files on disk.
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := ListSources(paths, opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("format: no source files found")
	}

	results := make([]FormatResult, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := FormatResult{Path: path}
		formatted, changed, err := formatSingleFile(ctx, path, opts)
		if err != nil {
			result.Err = err
			results = append(results, result)
			continue
		}

		if opts.Check {
			result.Changed = changed
			results = append(results, result)
			continue
		}

		if opts.Stdout {
			result.Formatted = formatted
			result.Changed = changed
			results = append(results, result)
			continue
		}

		if changed {
			if err := writeKeepMode(path, formatted); err != nil {
				result.Err = err
			} else {
				result.Changed = true
			}
		}
		results = append(results, result)
	}

	return results, nil
}

func formatSingleFile(ctx context.Context, path string, opts FormatOptions) (formatted []byte, changed bool, err error) {
	pr, err := Parse(ctx, path, opts.MaxDiagnostics)
	if err != nil {
		return nil, false, err
	}
	if pr.Bag.HasErrors() {
		return nil, false, errors.New("format: parse errors present")
	}

	formatted, err = format.Reformat(pr.File, pr.Builder, opts.Options)
	if err != nil {
		return nil, false, err
	}
	if opts.RoundTrip {
		if ok, msg := format.CheckRoundTrip(ctx, pr.File, opts.Options, pr.Bag.Cap()); !ok {
			return nil, false, errors.New(msg)
		}
	}

	changed = !bytes.Equal(pr.File.Content, formatted)
	return formatted, changed, nil
}

// writeKeepMode replaces path, keeping its permission bits.
func writeKeepMode(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode()
	}
	return os.WriteFile(path, data, mode.Perm())
}
