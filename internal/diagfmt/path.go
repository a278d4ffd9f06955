package diagfmt

import (
	"os"
	"path/filepath"
)

// autoPathLimit is the length above which PathModeAuto shortens absolute paths.
const autoPathLimit = 40

// formatPath renders path according to mode.
func formatPath(path string, mode PathMode, baseDir string) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return path
		}
		if rel, err := filepath.Rel(baseDir, abs); err == nil {
			return filepath.ToSlash(rel)
		}
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeAuto:
		if len(path) >= autoPathLimit && filepath.IsAbs(path) {
			return filepath.Base(path)
		}
	}
	return path
}
