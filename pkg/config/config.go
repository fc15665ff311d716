// Package config loads bildesk settings from a TOML file, filling in
// defaults for anything unset.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultSeparator joins and splits hierarchical tag segments. It must
// never appear inside a tag segment name.
const DefaultSeparator = "|"

// ThumbOpts are thumbnail options. A zero X or Y is computed from the
// source aspect ratio.
type ThumbOpts struct {
	X       int `toml:"x"`
	Y       int `toml:"y"`
	Quality int `toml:"quality"`
}

// Config holds the bildesk settings.
type Config struct {
	InDirs      []string `toml:"in_dirs"`
	OutDir      string   `toml:"out_dir"`
	DBPath      string   `toml:"db_path"`
	Listen      string   `toml:"listen"`
	Collection  string   `toml:"collection"`
	Description string   `toml:"description"`
	Separator   string   `toml:"separator"`

	Thumbnails map[string]ThumbOpts `toml:"thumbnails"`
}

// Default returns the built-in configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		OutDir:     filepath.Join(home, ".local", "share", "bildesk", "gallery"),
		DBPath:     filepath.Join(home, ".local", "share", "bildesk", "bildesk.db"),
		Listen:     "localhost:12800",
		Collection: "bildesk 📸",
		Separator:  DefaultSeparator,
		Thumbnails: map[string]ThumbOpts{
			"Tiny":   {Y: 180, Quality: 75},
			"Stream": {X: 640, Quality: 85},
			"Album":  {Y: 640, Quality: 85},
			"View":   {X: 2048, Quality: 85},
		},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "bildesk", "config.toml")
}

// Load reads the config at path, or the default location when path is
// empty. A missing file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	bs, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, cfg.Validate()
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(bs, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate checks settings that would corrupt tag data if wrong.
func (c *Config) Validate() error {
	if c.Separator == "" {
		return fmt.Errorf("separator must not be empty")
	}
	if len([]rune(c.Separator)) > 1 {
		return fmt.Errorf("separator must be a single character, got %q", c.Separator)
	}
	return nil
}

// Save writes the config to path, creating parent directories.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	bs, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	return os.WriteFile(path, bs, 0o644)
}
