package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	BenchPath string // .hcl benchmark files

	LogFormat string
	LogLevel  string

	// Workers overrides the run block's worker count when positive.
	Workers int
	// Force re-runs workflows that already hold results.
	Force bool
	// Verbose enables per-workflow progress lines.
	Verbose bool
}

// NewConfig validates and returns an application config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.BenchPath == "" {
		return nil, errors.New("BenchPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
