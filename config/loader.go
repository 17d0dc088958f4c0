package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. GRIDNAV_REDIS_ADDR.
const EnvPrefix = "GRIDNAV"

// Loader reads configuration files.
type Loader interface {
	Load(path string) (*Config, error)
}

type viperLoader struct {
	validator Validator
}

func NewLoader(validator Validator) Loader {
	return &viperLoader{validator: validator}
}

// Load layers the file at path (if path is non-empty) and the environment
// over DefaultConfig, then validates the result.
func (l *viperLoader) Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Seeding viper with the defaults registers every key, which AutomaticEnv
	// needs to resolve overrides during Unmarshal.
	defaults, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to encode defaults: %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("failed to read defaults: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := l.validator.Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load is NewLoader(NewValidator()).Load(path).
func Load(path string) (*Config, error) {
	return NewLoader(NewValidator()).Load(path)
}
