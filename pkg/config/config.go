// Package config loads the matching engine's tunable parameters from an
// optional config file with environment-variable override, using
// github.com/spf13/viper (the pack's location-service example carries this
// same dependency; the teacher's CLIs use bare flag.String instead).
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds every tunable parameter the matching core and its HTTP
// surface read at startup.
type Config struct {
	// HMM parameters (spec.md §6 defaults).
	Sigma float64 `mapstructure:"sigma"`
	Beta  float64 `mapstructure:"beta"`

	// Candidate search parameters.
	Radius     float64 `mapstructure:"radius"`
	InterpDist float64 `mapstructure:"interp_dist"`

	// Graph-construction parameters.
	BBoxBufferMeters float64 `mapstructure:"bbox_buffer_m"`
	MaxRouteLength   float64 `mapstructure:"max_route_length"`

	// HTTP surface.
	HTTPAddr   string `mapstructure:"http_addr"`
	CORSOrigin string `mapstructure:"cors_origin"`
}

// Defaults returns the spec's literal default values.
func Defaults() Config {
	return Config{
		Sigma:            4.07,
		Beta:             20,
		Radius:           10,
		InterpDist:       1,
		BBoxBufferMeters: 0,
		MaxRouteLength:   0,
		HTTPAddr:         ":8080",
		CORSOrigin:       "*",
	}
}

// Load reads configuration from configPath (if non-empty and present),
// falling back to Defaults, with MAPMATCH_-prefixed environment variables
// overriding any value from either source.
func Load(configPath string) (Config, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault("sigma", d.Sigma)
	v.SetDefault("beta", d.Beta)
	v.SetDefault("radius", d.Radius)
	v.SetDefault("interp_dist", d.InterpDist)
	v.SetDefault("bbox_buffer_m", d.BBoxBufferMeters)
	v.SetDefault("max_route_length", d.MaxRouteLength)
	v.SetDefault("http_addr", d.HTTPAddr)
	v.SetDefault("cors_origin", d.CORSOrigin)

	v.SetEnvPrefix("mapmatch")
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}
