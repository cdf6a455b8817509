package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPaths []string // hcl files or directories
	WorkDir    string   // generated units and their index

	// InputPath is an Arrow IPC file produced by a Snapshot. When empty, a
	// dataset of Entries entries with only the rdfentry_ column is used.
	InputPath string
	Entries   int

	Ranges  int
	Workers int

	// Compiler is an external command validating every generated unit
	// before it is loaded, e.g. "c++ -fsyntax-only -x c++ {file}".
	Compiler string

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.GraphPaths) == 0 {
		return nil, errors.New("GraphPaths is a required configuration field and cannot be empty")
	}
	if cfg.WorkDir == "" {
		return nil, errors.New("WorkDir is a required configuration field and cannot be empty")
	}
	if cfg.Entries < 0 {
		return nil, fmt.Errorf("entries must not be negative, got %d", cfg.Entries)
	}
	if cfg.InputPath != "" && cfg.Entries > 0 {
		return nil, errors.New("entries and an input file are mutually exclusive")
	}
	if cfg.Ranges < 1 {
		return nil, fmt.Errorf("ranges must be at least 1, got %d", cfg.Ranges)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if _, ok := parseLevel(cfg.LogLevel); !ok {
		return nil, fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}

	cfg.GraphPaths = append([]string(nil), cfg.GraphPaths...)
	return &cfg, nil
}
