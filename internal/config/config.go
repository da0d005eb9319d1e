// Package config loads the optional gridhash.yaml policy file that records
// a project's standing exclusions, so CI invocations do not have to repeat
// long flag lists.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the policy file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("policy file not found")

// PolicyConfig mirrors the YAML policy file. All fields are optional; CLI
// flags take precedence over file values and the two skip lists merge.
type PolicyConfig struct {
	// SkipNodes are dataset node paths excluded from generation and
	// comparison, e.g. "/metadata/history_record".
	SkipNodes []string `yaml:"skip_nodes"`
	// SkipAttributes are attribute names excluded on every node, beyond
	// the built-in volatile set.
	SkipAttributes []string `yaml:"skip_attributes"`
	// Reference is the default reference hash file path.
	Reference string `yaml:"reference"`
}

// ConfigFileName is the policy file looked up in the working directory
// when no explicit --policy path is given.
const ConfigFileName = "gridhash.yaml"

// Load reads the policy file at path. An empty path looks for
// ConfigFileName in the working directory.
func Load(path string) (*PolicyConfig, error) {
	explicit := path != ""
	if !explicit {
		path = ConfigFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return nil, fmt.Errorf("%s: %w", path, ErrConfigNotFound)
			}
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg PolicyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}
