package config

import (
	"time"

	"github.com/zeu5/gridnav/sim"
)

const (
	DefaultOutputDir      = "results"
	DefaultServerAddr     = ":8080"
	DefaultRequestTimeout = 2 * time.Minute
	DefaultMaxCells       = 100 * 100
	DefaultResultTTL      = 24 * time.Hour
	DefaultRedisPrefix    = "gridnav:result:"
)

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Simulation: sim.DefaultConfig(),
		Output: OutputConfig{
			Dir:    DefaultOutputDir,
			Format: "png",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:           DefaultServerAddr,
			Mode:           "release",
			RequestTimeout: DefaultRequestTimeout,
			MaxCells:       DefaultMaxCells,
		},
		Redis: RedisConfig{
			TTL:    DefaultResultTTL,
			Prefix: DefaultRedisPrefix,
		},
	}
}
