// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package config handles divarema.toml machine configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/divarema/translate"
)

var f = translate.From

const (
	DEFAULT_MEMORY = 8 // Memory cells of the reference machine.
)

var (
	ErrConfigMemory  = errors.New(f("memory size must be positive"))
	ErrConfigPreload = errors.New(f("preload larger than memory"))
)

// Config is the machine configuration.
type Config struct {
	Memory  uint              `toml:"memory"`  // Number of memory cells.
	Preload []int32           `toml:"preload"` // Initial memory contents, from address 0.
	Input   string            `toml:"input"`   // Tape input file, "-" for stdin.
	Output  string            `toml:"output"`  // Tape output file, "-" for stdout.
	Verbose bool              `toml:"verbose"` // Verbose tracing.
	Dump    string            `toml:"dump"`    // CBOR snapshot written after the run.
	Equ     map[string]string `toml:"equ"`     // Predefined loader equates.
}

// Default returns the reference machine configuration.
func Default() *Config {
	return &Config{
		Memory: DEFAULT_MEMORY,
		Input:  "-",
		Output: "-",
	}
}

// Load parses a TOML configuration file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	cfg, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes TOML text over the defaults and validates the result.
func Parse(text string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(text, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the memory size against the preload.
func (cfg *Config) Validate() error {
	if cfg.Memory == 0 {
		return ErrConfigMemory
	}
	if uint(len(cfg.Preload)) > cfg.Memory {
		return ErrConfigPreload
	}
	return nil
}
