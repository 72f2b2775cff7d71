package config

import (
	"gopkg.in/yaml.v3"

	cverrors "github.com/conveyor-go/conveyor/pkg/common/errors"
)

// BatchConfig is the root structure for a batch definition (e.g. from YAML).
type BatchConfig struct {
	Name   string     `yaml:"name"`
	Stages []StageRef `yaml:"stages"`
}

// StageRef is a single stage entry: either a plain name or name + options.
// In YAML, a stage can be written as:
//   - uppercase
//   - name: enrich
//     workers: 8
type StageRef struct {
	Name    string `yaml:"name"`
	Workers int    `yaml:"workers"`
}

// UnmarshalYAML allows a stage to be a string (stage name only) or a struct.
func (s *StageRef) UnmarshalYAML(value *yaml.Node) error {
	var nameOnly string
	if err := value.Decode(&nameOnly); err == nil {
		s.Name = nameOnly
		return nil
	}
	type raw StageRef
	return value.Decode((*raw)(s))
}

// Parse parses YAML bytes into a single BatchConfig.
func Parse(data []byte) (*BatchConfig, error) {
	var cfg BatchConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MultiBatchConfig is the root structure for a file that defines multiple
// batches. Top-level key is "batches"; each value is a batch definition.
type MultiBatchConfig struct {
	Batches map[string]BatchConfig `yaml:"batches"`
}

// ParseMulti parses YAML bytes that contain a "batches" map from name to
// batch config. Example YAML:
//
//	batches:
//	  ingest:
//	    stages: [fetch, parse]
//	  notify:
//	    stages: [validate, send]
func ParseMulti(data []byte) (*MultiBatchConfig, error) {
	var cfg MultiBatchConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config for structural problems before building.
func (c *BatchConfig) Validate() error {
	if len(c.Stages) == 0 {
		return cverrors.NewValidationError("config", "stages", len(c.Stages), "must declare at least one stage")
	}
	for i, ref := range c.Stages {
		if ref.Name == "" {
			return cverrors.NewValidationError("config", "stages", i, "stage name required")
		}
		if ref.Workers < 0 {
			return cverrors.NewValidationError("config", "workers", ref.Workers, "must not be negative").
				WithHint("omit workers to use the default pool size")
		}
	}
	return nil
}
