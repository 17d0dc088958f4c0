// Package config loads the gridnav configuration: a YAML file layered over
// built-in defaults, overridable through GRIDNAV_* environment variables.
package config

import (
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeu5/gridnav/sim"
)

// Config is the root configuration.
type Config struct {
	Simulation sim.Config    `mapstructure:"simulation" yaml:"simulation"`
	Output     OutputConfig  `mapstructure:"output" yaml:"output"`
	Logging    LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Server     ServerConfig  `mapstructure:"server" yaml:"server"`
	Redis      RedisConfig   `mapstructure:"redis" yaml:"redis"`
}

// OutputConfig controls where plots go.
type OutputConfig struct {
	Dir      string `mapstructure:"dir" yaml:"dir" validate:"required"`
	Format   string `mapstructure:"format" yaml:"format" validate:"oneof=png svg pdf"`
	Headless bool   `mapstructure:"headless" yaml:"headless"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr" validate:"required"`
	// Mode is the gin mode.
	Mode           string        `mapstructure:"mode" yaml:"mode" validate:"oneof=debug release test"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout" validate:"min=0"`
	// MaxCells caps Field.Size^2 for simulations requested over HTTP.
	MaxCells int `mapstructure:"max_cells" yaml:"max_cells" validate:"min=9"`
}

// RedisConfig configures the result store. An empty Addr keeps results in
// memory.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db" validate:"min=0"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl" validate:"min=0"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
}

// RedactedPassword replaces a non-empty redis password in YAML output.
const RedactedPassword = "********"

// YAML renders the configuration as it would be written to a file, with the
// redis password masked.
func (c *Config) YAML() ([]byte, error) {
	out := *c
	if out.Redis.Password != "" {
		out.Redis.Password = RedactedPassword
	}
	return yaml.Marshal(&out)
}
