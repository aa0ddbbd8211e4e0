package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/compliancespectre/internal/analyzer"
	"github.com/ppiankov/compliancespectre/internal/compliance"
)

// Config holds compliancespectre configuration loaded from .compliancespectre.yaml.
type Config struct {
	Folder               string                `yaml:"folder"`
	S3                   S3                    `yaml:"s3"`
	Format               string                `yaml:"format"`
	Timeout              string                `yaml:"timeout"`
	Concurrency          int                   `yaml:"concurrency"`
	Listen               string                `yaml:"listen"`
	LabelMaxLength       int                   `yaml:"label_max_length"`
	RiskScored           []string              `yaml:"risk_scored"`
	DimensionPreferences []analyzer.Preference `yaml:"dimension_preferences"`
}

// S3 locates compliance exports stored in a bucket.
type S3 struct {
	Bucket  string `yaml:"bucket"`
	Prefix  string `yaml:"prefix"`
	Profile string `yaml:"profile"`
	Region  string `yaml:"region"`
}

// TimeoutDuration parses the timeout string as a duration.
func (c Config) TimeoutDuration() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// EngineOptions merges the configured scoring settings over the defaults.
func (c Config) EngineOptions() compliance.Options {
	opts := compliance.DefaultOptions()
	if c.LabelMaxLength > 0 {
		opts.LabelMaxLength = c.LabelMaxLength
	}
	if len(c.RiskScored) > 0 {
		opts.RiskScored = c.RiskScored
	}
	if len(c.DimensionPreferences) > 0 {
		opts.Preferences = c.DimensionPreferences
	}
	return opts
}

// Validate rejects preferences naming unknown dimensions.
func (c Config) Validate() error {
	for _, p := range c.DimensionPreferences {
		if p.Match == "" {
			return fmt.Errorf("dimension_preferences: empty match")
		}
		if !p.Dimension.Valid() {
			return fmt.Errorf("dimension_preferences: unknown dimension %q for %q", p.Dimension, p.Match)
		}
	}
	if c.LabelMaxLength < 0 {
		return fmt.Errorf("label_max_length must not be negative")
	}
	return nil
}

// Load searches for .compliancespectre.yaml or .compliancespectre.yml in the
// given directory and returns the parsed config. Returns an empty Config if
// no file is found.
func Load(dir string) (Config, error) {
	candidates := []string{
		filepath.Join(dir, ".compliancespectre.yaml"),
		filepath.Join(dir, ".compliancespectre.yml"),
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}

		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		if err := cfg.Validate(); err != nil {
			return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
		}
		return cfg, nil
	}

	return Config{}, nil
}
