package report

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultConfigYAML []byte

// SubjectSpec describes one reportable column.
type SubjectSpec struct {
	Code     string   `yaml:"code,omitempty" json:"code,omitempty"`
	Label    string   `yaml:"label" json:"label"`
	Column   string   `yaml:"column" json:"column"`
	MaxMarks *float64 `yaml:"max_marks,omitempty" json:"max_marks,omitempty"` // nil: derive from Column
}

// Config is the static report layout for a deployment.
type Config struct {
	StudentIDColumns []string      `yaml:"student_id_columns" json:"student_id_columns"`
	TotalColumns     []string      `yaml:"total_columns" json:"total_columns"`
	RankColumns      []string      `yaml:"rank_columns" json:"rank_columns"`
	OverallDefault   float64       `yaml:"overall_default" json:"overall_default"`
	Subjects         []SubjectSpec `yaml:"subjects" json:"subjects"`
}

// ErrInvalidConfig is returned for a config that cannot drive a report.
var ErrInvalidConfig = errors.New("invalid report config")

// DefaultConfig returns the layout bundled with the binary.
func DefaultConfig() (*Config, error) {
	return ParseConfig(defaultConfigYAML)
}

// LoadConfig reads a YAML layout from path. An empty path selects the
// bundled default.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report config %s: %w", path, err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes and validates a YAML layout.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the layout before any record is processed.
func (c *Config) Validate() error {
	if len(c.StudentIDColumns) == 0 {
		return fmt.Errorf("%w: student_id_columns is empty", ErrInvalidConfig)
	}
	if len(c.Subjects) == 0 {
		return fmt.Errorf("%w: no subjects configured", ErrInvalidConfig)
	}

	for i, s := range c.Subjects {
		if s.Column == "" {
			return fmt.Errorf("%w: subject %d has no column", ErrInvalidConfig, i)
		}
		if s.DisplayName() == "" {
			return fmt.Errorf("%w: subject %q has neither label nor code", ErrInvalidConfig, s.Column)
		}
		if s.MaxMarks != nil && *s.MaxMarks < 0 {
			return fmt.Errorf("%w: subject %q has negative max_marks", ErrInvalidConfig, s.Column)
		}
	}

	return nil
}

// MaxMarksFor resolves the denominator of a configured subject.
func (s SubjectSpec) MaxMarksFor() float64 {
	return ExtractMaxMarks(s.Column, s.MaxMarks)
}

// DisplayName prefers the label and falls back to the code.
func (s SubjectSpec) DisplayName() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Code
}
