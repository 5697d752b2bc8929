package util

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/bagaskara-rp/meridian/pkg"
)

// Config holds the router tuning knobs. Zero values are replaced with the
// defaults from the pkg constants, so callers can construct it partially.
type Config struct {
	SearchOffsetDegree float64 `mapstructure:"search_offset_degree" validate:"gte=0"`
	MaxSnapDistance    float64 `mapstructure:"max_snap_distance_meters" validate:"gte=0"`
	VerifyAllStoppable bool    `mapstructure:"verify_all_stoppable"`
	NumWorkers         int     `mapstructure:"num_workers" validate:"gte=0"`
}

func DefaultConfig() Config {
	return Config{
		SearchOffsetDegree: pkg.DEFAULT_SEARCH_OFFSET_DEGREE,
		MaxSnapDistance:    pkg.DEFAULT_MAX_SNAP_DISTANCE_M,
	}
}

func (c Config) WithDefaults() Config {
	if c.SearchOffsetDegree == 0 {
		c.SearchOffsetDegree = pkg.DEFAULT_SEARCH_OFFSET_DEGREE
	}
	if c.MaxSnapDistance == 0 {
		c.MaxSnapDistance = pkg.DEFAULT_MAX_SNAP_DISTANCE_M
	}
	return c
}

// ReadConfig loads a config file from configPath (file name "config", any
// extension viper understands). A missing file is not an error; the
// defaults apply.
func ReadConfig(configPath string) (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(configPath)

	v.SetDefault("search_offset_degree", pkg.DEFAULT_SEARCH_OFFSET_DEGREE)
	v.SetDefault("max_snap_distance_meters", pkg.DEFAULT_MAX_SNAP_DISTANCE_M)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Config{}, fmt.Errorf("fatal error config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg.WithDefaults(), nil
}
