package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"modeldeploy/internal/common/fsutil"
)

// SearchPaths lists the locations Discover checks, in order.
var SearchPaths = []string{
	"modeldeploy.yaml",
	"modeldeploy.yml",
	"modeldeploy.json",
	"modeldeploy.toml",
	"~/.config/modeldeploy/config.yaml",
	"~/.config/modeldeploy/config.yml",
	"~/.config/modeldeploy/config.json",
	"~/.config/modeldeploy/config.toml",
}

// Discover returns the first config file found in SearchPaths, or "".
func Discover() string { return fsutil.FirstExisting(SearchPaths...) }

// Load reads a configuration file based on its extension, layered on top of
// Default. Supports: .yaml/.yml, .json, .toml
func Load(path string) (DeployConfig, error) {
	cfg := Default()
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(p)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", p, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", p, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", p, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
