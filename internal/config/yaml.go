package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/davetashner/modgraph/internal/testable"
)

// Load reads the configuration file from the given scan root, probing
// .modgraph.yaml, .modgraph.yml and .modgraph.toml in that order.
// If none exists, it returns a zero-value Config, an empty path and nil error.
func Load(fsys testable.FileSystem, root string) (*Config, string, error) {
	fsys = testable.OrDefault(fsys)
	for _, name := range []string{FileName, FileNameYML, FileNameTOML} {
		path := filepath.Join(root, name)
		cfg, err := LoadFile(fsys, path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, path, err
		}
		return cfg, path, nil
	}
	return &Config{}, "", nil
}

// LoadFile reads one configuration file. The decoder is chosen by extension:
// .toml files use TOML, everything else YAML.
func LoadFile(fsys testable.FileSystem, path string) (*Config, error) {
	data, err := testable.OrDefault(fsys).ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
		return &cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return &cfg, nil
}

// Write marshals the config to YAML and writes it to w.
func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close() //nolint:errcheck // best-effort close
	enc.SetIndent(2)
	return enc.Encode(cfg)
}
