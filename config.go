package main

import (
	"io"
	"os"

	"github.com/baldisbk/recstats/stats"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

const (
	BackendYAML   = "yaml"
	BackendBadger = "badger"
	BackendMemory = "memory"

	FormatYAML = "yaml"
	FormatJSON = "json"
)

type Config struct {
	Backend string `yaml:"backend"`
	Field   string `yaml:"field"`
	Format  string `yaml:"format"`
	LogPath string `yaml:"log"`
}

func DefaultConfig() Config {
	return Config{
		Backend: BackendYAML,
		Field:   stats.DefaultField,
		Format:  FormatYAML,
		LogPath: "recstats.log",
	}
}

// LoadConfig reads filename over the defaults. A missing file is not an error.
func LoadConfig(filename string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, xerrors.Errorf("open: %w", err)
	}
	defer f.Close()
	contents, err := io.ReadAll(f)
	if err != nil {
		return cfg, xerrors.Errorf("read: %w", err)
	}
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return cfg, xerrors.Errorf("unmarshal: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Backend {
	case BackendYAML, BackendBadger, BackendMemory:
	default:
		return xerrors.Errorf("unknown backend %q", c.Backend)
	}
	switch c.Format {
	case FormatYAML, FormatJSON:
	default:
		return xerrors.Errorf("unknown format %q", c.Format)
	}
	if c.Field == "" {
		return xerrors.New("empty field name")
	}
	if c.LogPath == "" {
		return xerrors.New("empty log path")
	}
	return nil
}
