package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteOutput stores the transformed text of res. An empty outDir
// rewrites the file in place; otherwise the path relative to root is
// mirrored under outDir. Unchanged files are written only when mirroring.
func WriteOutput(res *FileResult, root, outDir string) (string, error) {
	if res.Output == nil {
		return "", fmt.Errorf("%s: no output", res.Path)
	}
	if outDir == "" {
		if !res.Changed {
			return res.Path, nil
		}
		return res.Path, writeKeepMode(res.Path, res.Output)
	}

	rel := filepath.Base(res.Path)
	if root != "" {
		if r, err := filepath.Rel(root, res.Path); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	dst := filepath.Join(outDir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return dst, err
	}
	return dst, os.WriteFile(dst, res.Output, 0o644)
}
