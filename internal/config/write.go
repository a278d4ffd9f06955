package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrExists is returned by WriteFile when the target already exists.
var ErrExists = errors.New("config file already exists")

// Encode writes cfg in the format implied by path's extension.
func Encode(w io.Writer, cfg Config, path string) error {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	case ".toml":
		return toml.NewEncoder(w).Encode(cfg)
	}
	return fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// WriteFile creates path with cfg. An existing file is left alone unless force is set.
func WriteFile(path string, cfg Config, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	// #nosec G304 -- path is provided by the caller
	f, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%s: %w", path, ErrExists)
	}
	if err != nil {
		return err
	}
	if err := Encode(f, cfg, path); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
