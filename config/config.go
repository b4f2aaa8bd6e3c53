// Package config loads the runtime configuration: defaults, then IMATH_*
// environment variables, then explicit overrides.
package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/imath-bind/errors"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "IMATH_"

// Config configures a runtime built by imathbind.NewRuntime.
type Config struct {
	// LogLevel is a zap level name.
	LogLevel string `mapstructure:"log_level" json:"log_level" validate:"oneof=debug info warn error" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,default=info"`

	// LogFormat selects zap's console or JSON encoder.
	LogFormat string `mapstructure:"log_format" json:"log_format" validate:"oneof=console json" jsonschema:"enum=console,enum=json,default=console"`

	// Workers bounds the goroutines bulk array operations fan out to. One
	// runs everything inline.
	Workers int `mapstructure:"workers" json:"workers" validate:"min=1,max=1024" jsonschema:"minimum=1,maximum=1024,default=1"`

	// Grain is the smallest slice of elements handed to one worker.
	Grain int `mapstructure:"grain" json:"grain" validate:"min=1" jsonschema:"minimum=1,default=4096"`

	// ReprLimit truncates array reprs after this many elements; 0 prints all.
	ReprLimit int `mapstructure:"repr_limit" json:"repr_limit" validate:"min=0" jsonschema:"minimum=0,default=100"`

	// Modules lists the host modules to install.
	Modules []string `mapstructure:"modules" json:"modules" validate:"min=1,dive,oneof=iex imath"`
}

var validate = validator.New()

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "console",
		Workers:   1,
		Grain:     4096,
		ReprLimit: 100,
		Modules:   []string{"iex", "imath"},
	}
}

// Load builds a configuration from the defaults, the environment and
// overrides, in increasing precedence, and validates the result.
func Load(overrides map[string]any) (Config, error) {
	cfg := Default()
	if err := decode(Environ(os.Environ()), &cfg, false); err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "environment")
	}
	if err := decode(overrides, &cfg, true); err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "overrides")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Environ picks the IMATH_* entries of env as lower-case keys, so
// IMATH_REPR_LIMIT=10 becomes repr_limit. List values are comma separated.
func Environ(env []string) map[string]any {
	out := make(map[string]any)
	for _, kv := range env {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(k, EnvPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
		if key == "modules" {
			out[key] = strings.Split(v, ",")
			continue
		}
		out[key] = v
	}
	return out
}

// decode merges in over cfg. strict rejects keys Config does not have.
func decode(in map[string]any, cfg *Config, strict bool) error {
	if len(in) == 0 {
		return nil
	}
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      strict,
		ZeroFields:       true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return d.Decode(in)
}

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidValue, err, "validation failed")
	}
	return nil
}

// Schema returns the JSON schema of Config.
func Schema() ([]byte, error) {
	r := jsonschema.Reflector{ExpandedStruct: true}
	b, err := json.MarshalIndent(r.Reflect(&Config{}), "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindUnsupported, err, "schema")
	}
	return b, nil
}

// NewLogger builds the zap logger the configuration describes.
func NewLogger(c Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidValue, err, "log level")
	}
	zc := zap.NewProductionConfig()
	if c.LogFormat == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
