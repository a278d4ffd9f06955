// Package config loads hereafter.toml / hereafter.yaml project settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"hereafter/internal/cut"
	"hereafter/internal/jump"
	"hereafter/internal/vocab"
)

// File names searched by Find, in order of preference.
const (
	TOMLName = "hereafter.toml"
	YAMLName = "hereafter.yaml"
)

// ErrUnknownFormat is returned for config files that are neither TOML nor YAML.
var ErrUnknownFormat = errors.New("unknown config format")

type CutConfig struct {
	Pad        bool `toml:"pad" yaml:"pad"`
	Transitive bool `toml:"transitive" yaml:"transitive"`
}

type JumpConfig struct {
	Fallthrough string `toml:"fallthrough" yaml:"fallthrough"`
	Returns     string `toml:"returns" yaml:"returns"`
}

type RunConfig struct {
	Jobs    int      `toml:"jobs" yaml:"jobs"`
	Cache   string   `toml:"cache" yaml:"cache"` // пусто - без кэша
	Include []string `toml:"include" yaml:"include"`
	Exclude []string `toml:"exclude" yaml:"exclude"`
}

// Config is the full project configuration.
type Config struct {
	Vocabulary vocab.Vocabulary `toml:"vocabulary" yaml:"vocabulary"`
	Cut        CutConfig        `toml:"cut" yaml:"cut"`
	Jump       JumpConfig       `toml:"jump" yaml:"jump"`
	Run        RunConfig        `toml:"run" yaml:"run"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Vocabulary: vocab.Default(),
		Jump: JumpConfig{
			Fallthrough: jump.FallEnd.String(),
			Returns:     jump.ReturnsThread.String(),
		},
		Run: RunConfig{
			Include: []string{"*.js", "*.mjs"},
			Exclude: []string{"node_modules"},
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return decodeTOML(path, data)
	case ".yaml", ".yml":
		return decodeYAML(path, data)
	}
	return Config{}, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

func decodeTOML(path string, data []byte) (Config, error) {
	var raw Config
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}

	cfg := Default()
	cfg.Path = path
	setDefined(meta, &cfg.Vocabulary.CutName, raw.Vocabulary.CutName, "vocabulary", "cut_name")
	setDefined(meta, &cfg.Vocabulary.CutModule, raw.Vocabulary.CutModule, "vocabulary", "cut_module")
	setDefined(meta, &cfg.Vocabulary.LabelName, raw.Vocabulary.LabelName, "vocabulary", "label_name")
	setDefined(meta, &cfg.Vocabulary.GotoName, raw.Vocabulary.GotoName, "vocabulary", "goto_name")
	setDefined(meta, &cfg.Vocabulary.GotoModule, raw.Vocabulary.GotoModule, "vocabulary", "goto_module")
	setDefined(meta, &cfg.Cut.Pad, raw.Cut.Pad, "cut", "pad")
	setDefined(meta, &cfg.Cut.Transitive, raw.Cut.Transitive, "cut", "transitive")
	setDefined(meta, &cfg.Jump.Fallthrough, raw.Jump.Fallthrough, "jump", "fallthrough")
	setDefined(meta, &cfg.Jump.Returns, raw.Jump.Returns, "jump", "returns")
	setDefined(meta, &cfg.Run.Jobs, raw.Run.Jobs, "run", "jobs")
	setDefined(meta, &cfg.Run.Cache, raw.Run.Cache, "run", "cache")
	setDefined(meta, &cfg.Run.Include, raw.Run.Include, "run", "include")
	setDefined(meta, &cfg.Run.Exclude, raw.Run.Exclude, "run", "exclude")

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// setDefined copies src into dst when key is present in the file.
func setDefined[T any](meta toml.MetaData, dst *T, src T, key ...string) {
	if meta.IsDefined(key...) {
		*dst = src
	}
}

func decodeYAML(path string, data []byte) (Config, error) {
	// поверх значений по умолчанию: yaml.v3 не трогает отсутствующие поля
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks vocabulary names, pass policies and run limits.
func (c Config) Validate() error {
	if err := c.Vocabulary.Validate(); err != nil {
		return err
	}
	if _, err := c.JumpOptions(); err != nil {
		return err
	}
	if c.Run.Jobs < 0 {
		return fmt.Errorf("run: jobs must be >= 0, got %d", c.Run.Jobs)
	}
	return nil
}

// CutOptions returns the options for the fromHere pass.
func (c Config) CutOptions() cut.Options {
	return cut.Options{Pad: c.Cut.Pad, Transitive: c.Cut.Transitive}
}

// JumpOptions parses the jump policies.
func (c Config) JumpOptions() (jump.Options, error) {
	ft, err := jump.ParseFallthrough(c.Jump.Fallthrough)
	if err != nil {
		return jump.Options{}, fmt.Errorf("jump: %w", err)
	}
	ret, err := jump.ParseReturns(c.Jump.Returns)
	if err != nil {
		return jump.Options{}, fmt.Errorf("jump: %w", err)
	}
	return jump.Options{Fallthrough: ft, Returns: ret}, nil
}
