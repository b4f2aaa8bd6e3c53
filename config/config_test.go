package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/imath-bind/errors"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestEnviron(t *testing.T) {
	got := Environ([]string{
		"HOME=/root",
		"IMATH_WORKERS=4",
		"IMATH_MODULES=imath",
		"IMATH_LOG_LEVEL=debug",
		"IMATHX=1",
	})
	assert.Equal(t, map[string]any{
		"workers":   "4",
		"modules":   []string{"imath"},
		"log_level": "debug",
	}, got)
}

func TestLoadPrecedence(t *testing.T) {
	t.Setenv("IMATH_WORKERS", "4")
	t.Setenv("IMATH_REPR_LIMIT", "10")

	cfg, err := Load(map[string]any{"repr_limit": 3, "modules": []string{"imath"}})
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 3, cfg.ReprLimit)
	assert.Equal(t, []string{"imath"}, cfg.Modules)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
	}{
		{"unknown key", map[string]any{"colour": "red"}},
		{"bad level", map[string]any{"log_level": "loud"}},
		{"no workers", map[string]any{"workers": 0}},
		{"unknown module", map[string]any{"modules": []string{"numpy"}}},
		{"not a number", map[string]any{"grain": "lots"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.overrides)
			var e *errors.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, errors.PhaseConfig, e.Phase)
		})
	}
}

func TestSchema(t *testing.T) {
	b, err := Schema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b, &doc))
	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"log_level", "log_format", "workers", "grain", "repr_limit", "modules"} {
		assert.Contains(t, props, key)
	}
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "warn"
	l, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(-1))

	cfg.LogLevel = "nope"
	_, err = NewLogger(cfg)
	assert.Error(t, err)
}
