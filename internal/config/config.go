// Package config loads quilldoc's configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config models the persisted quilldoc settings.
type Config struct {
	// SearchPaths are the directories module manifests are resolved
	// against, in order.
	SearchPaths []string `yaml:"search_paths"`
	// DatabasePath is where the catalogue database lives.
	DatabasePath string `yaml:"database_path"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".quilldoc.yaml"
	}
	return filepath.Join(home, ".quilldoc", "config.yaml")
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{SearchPaths: []string{"."}}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.DatabasePath = filepath.Join(home, ".quilldoc", "catalogue.db")
	} else {
		cfg.DatabasePath = "quilldoc.db"
	}
	return cfg
}

// Load reads the config file at path, falling back to defaults when the
// default-location file does not exist. Environment variables override file
// values: QUILLDOC_SEARCH_PATH (list separated by the OS path separator) and
// QUILLDOC_DB_PATH.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine; defaults apply.
	default:
		return nil, err
	}

	if env := os.Getenv("QUILLDOC_SEARCH_PATH"); env != "" {
		cfg.SearchPaths = splitList(env)
	}
	if env := os.Getenv("QUILLDOC_DB_PATH"); env != "" {
		cfg.DatabasePath = env
	}
	if len(cfg.SearchPaths) == 0 {
		cfg.SearchPaths = []string{"."}
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, string(os.PathListSeparator)) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
