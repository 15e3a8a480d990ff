// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Pointer fields
// distinguish "absent" from zero, so file values never clobber flags the
// user set explicitly.
type FileConfig struct {
	Train      TrainConfig      `toml:"train"`
	Generate   GenerateConfig   `toml:"generate"`
	Beam       BeamConfig       `toml:"beam"`
	Stochastic StochasticConfig `toml:"stochastic"`
	Paths      PathsConfig      `toml:"paths"`
}

// TrainConfig maps training settings.
type TrainConfig struct {
	Alpha          *float64 `toml:"alpha"`
	Leet           *bool    `toml:"leet"`
	MinLength      *int     `toml:"min-length"`
	MinTokenLength *int     `toml:"min-token-length"`
	MaxSamples     *int     `toml:"max-samples"`
	TrimEvery      *int     `toml:"trim-every"`
	TrimTop        *int     `toml:"trim-top"`
	TopTemplates   *int     `toml:"top-templates"`
	TopWords       *int     `toml:"top-words"`
	TopDigits      *int     `toml:"top-digits"`
	FragTableTop   *int     `toml:"frag-table-top"`
}

// GenerateConfig maps candidate generation settings shared by both modes.
type GenerateConfig struct {
	MinLength  *int `toml:"min-length"`
	MaxLength  *int `toml:"max-length"`
	PoolWords  *int `toml:"pool-words"`
	PoolDigits *int `toml:"pool-digits"`
	PoolFrags  *int `toml:"pool-frags"`
}

// BeamConfig maps deterministic generation settings.
type BeamConfig struct {
	TopKPerSlot *int `toml:"topk-per-slot"`
	BeamSize    *int `toml:"beam-size"`
	PerTemplate *int `toml:"per-template"`
	Templates   *int `toml:"templates"`
	MaxTotal    *int `toml:"max-total"`
}

// StochasticConfig maps sampling generation settings.
type StochasticConfig struct {
	Samples     *int   `toml:"samples"`
	PerTemplate *int   `toml:"per-template"`
	Templates   *int   `toml:"templates"`
	Seed        *int64 `toml:"seed"`
}

// PathsConfig maps default file locations.
type PathsConfig struct {
	WordList *string `toml:"word-list"`
	DB       *string `toml:"db"`
	Output   *string `toml:"output-dir"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
