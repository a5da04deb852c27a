// Package config loads tsx.config.yaml, the project-level configuration a
// host reads before constructing pkg/engine.Options: default strict mode,
// default execution mode, entry file, and module search paths.
//
// Grounded on sunholo-data-ailang's internal/eval_harness.LoadSpec for the
// read-then-Unmarshal-then-validate shape, adapted to use goccy/go-yaml (the
// teacher's own indirect YAML dependency, promoted to direct here) rather
// than that example's gopkg.in/yaml.v3.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the decoded contents of tsx.config.yaml.
type Config struct {
	StrictByDefault bool     `yaml:"strict"`
	DefaultMode     string   `yaml:"mode"`
	EntryFile       string   `yaml:"entry"`
	ModulePaths     []string `yaml:"modulePaths"`
}

// defaults returns the zero-value configuration used when no config file
// is present (spec.md §6.9: "Absent file ⇒ zero-value defaults").
func defaults() *Config {
	return &Config{
		StrictByDefault: false,
		DefaultMode:     "interpret",
		EntryFile:       "",
		ModulePaths:     nil,
	}
}

// Load reads and decodes path. A missing file is not an error: it returns
// defaults() so a project with no tsx.config.yaml still runs.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults(), nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if cfg.DefaultMode != "interpret" && cfg.DefaultMode != "compile" {
		return nil, fmt.Errorf("config: %s: mode must be \"interpret\" or \"compile\", got %q", path, cfg.DefaultMode)
	}
	return cfg, nil
}
