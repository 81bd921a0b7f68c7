// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Timing TimingConfig `toml:"timing"`
}

// TimingConfig maps keyer timing settings. Window bounds are unit multiples.
type TimingConfig struct {
	UnitMs     *int     `toml:"unit-ms"`
	DotMin     *float64 `toml:"dot-min"`
	DotMax     *float64 `toml:"dot-max"`
	DashMin    *float64 `toml:"dash-min"`
	DashMax    *float64 `toml:"dash-max"`
	GapMin     *float64 `toml:"gap-min"`
	GapMax     *float64 `toml:"gap-max"`
	WordGapMax *float64 `toml:"word-gap-max"`
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
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
