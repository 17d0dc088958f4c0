package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zeu5/gridnav/grid"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gridnav.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig_IsValid(t *testing.T) {
	require.NoError(t, NewValidator().Validate(DefaultConfig()))
}

func TestLoad_NoFileGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
simulation:
  field:
    size: 20
    iterations: 3
    sources:
      - cell: {row: 5, col: 6}
        value: 4.5
    walls:
      - {row: 1, col: 1}
  start: {row: 0, col: 0}
  goal: {row: 19, col: 19}
  learner:
    epsilon: 0.2
  episodes: 50
logging:
  level: debug
  format: json
redis:
  ttl: 1h
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	f := cfg.Simulation.Field
	assert.Equal(t, 20, f.Size)
	assert.Equal(t, 3, f.Iterations)
	// untouched keys keep their defaults
	assert.Equal(t, 10, f.Passes)
	assert.Equal(t, 0.1, f.DiffusionRate)
	require.Len(t, f.Sources, 1)
	assert.Equal(t, grid.Source{Cell: grid.Cell{Row: 5, Col: 6}, Value: 4.5}, f.Sources[0])
	assert.Equal(t, []grid.Cell{{Row: 1, Col: 1}}, f.Walls)

	assert.Equal(t, grid.Cell{Row: 19, Col: 19}, cfg.Simulation.Goal)
	assert.Equal(t, 0.2, cfg.Simulation.Learner.Epsilon)
	assert.Equal(t, 0.1, cfg.Simulation.Learner.Alpha)
	assert.Equal(t, 50, cfg.Simulation.Episodes)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GRIDNAV_REDIS_ADDR", "localhost:6380")
	t.Setenv("GRIDNAV_SERVER_ADDR", ":9090")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "simulation: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		yaml string
		want string
	}{
		"rate out of range": {
			yaml: "simulation:\n  field:\n    diffusion_rate: 1.5\n",
			want: "simulation.field.diffusionrate",
		},
		"rate on the open bound": {
			yaml: "simulation:\n  field:\n    diffusion_rate: 1\n",
			want: "simulation.field.diffusionrate must be less than 1",
		},
		"alpha above one": {
			yaml: "simulation:\n  learner:\n    alpha: 1.5\n",
			want: "simulation.learner.alpha must be at most 1",
		},
		"bad log format": {
			yaml: "logging:\n  format: xml\n",
			want: "logging.format must be one of",
		},
		"goal outside grid": {
			yaml: "simulation:\n  goal: {row: 50, col: 3}\n",
			want: "goal",
		},
		"too many cells": {
			yaml: "simulation:\n  field:\n    size: 200\n  goal: {row: 4, col: 4}\n",
			want: "max_cells",
		},
		"tiny grid": {
			yaml: "simulation:\n  field:\n    size: 2\n",
			want: "simulation.field.size must be at least 3",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
	assert.ErrorIs(t, NewValidator().Validate(nil), ErrInvalid)
}

func TestYAML_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Simulation.Field.Walls = []grid.Cell{{Row: 3, Col: 4}}
	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "diffusion_rate: 0.1")

	var back Config
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, *cfg, back)

	loaded, err := Load(writeConfig(t, string(out)))
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestYAML_MasksRedisPassword(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Redis.Password = "hunter2"
	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.NotContains(t, string(out), "hunter2")
	assert.Contains(t, string(out), RedactedPassword)
	assert.Equal(t, "hunter2", cfg.Redis.Password)

	cfg.Redis.Password = ""
	out, err = cfg.YAML()
	require.NoError(t, err)
	assert.NotContains(t, string(out), RedactedPassword)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggingConfig{Level: "warn", Format: "json"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"msg":"shown"`)

	buf.Reset()
	NewLogger(LoggingConfig{Level: "debug", Format: "text"}, &buf).Debug("dbg")
	assert.Contains(t, buf.String(), "msg=dbg")

	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
	assert.Equal(t, slog.LevelError, ParseLevel("ERROR"))
}
