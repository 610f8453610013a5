package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

var (
	ErrReadFailed    = errors.New("failed to read config file")
	ErrParseFailed   = errors.New("failed to parse config file")
	ErrInvalidConfig = errors.New("invalid config")
)

const (
	defaultServerMode      = "release"
	defaultServerPort      = 8080
	defaultShutdownTimeout = 10
	defaultLogLevel        = "info"
	defaultBatchSize       = 5
	defaultSinkKind        = "stdout"
	defaultSinkTimeout     = 10
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validateSinkBackend, Config{})
	return v
}

// validateSinkBackend checks backend settings that depend on the selected sink
func validateSinkBackend(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	if cfg.Sink.Kind == "mongodb" && cfg.MongoDB.Database == "" {
		sl.ReportError(cfg.MongoDB.Database, "MongoDB.Database", "Database", "required_for_sink", cfg.Sink.Kind)
	}
}

// Load reads, defaults and validates the YAML config at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	return Parse(data)
}

// Parse decodes a YAML document into a validated Config
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Validate checks the config against its validation tags
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// setDefaults sets default values for unset fields
func (c *Config) setDefaults() {
	if c.Server.Mode == "" {
		c.Server.Mode = defaultServerMode
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultServerPort
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaultLogLevel
	}
	if c.Batcher.BatchSize == 0 {
		c.Batcher.BatchSize = defaultBatchSize
	}
	if c.Sink.Kind == "" {
		c.Sink.Kind = defaultSinkKind
	}
	if c.Sink.Timeout == 0 {
		c.Sink.Timeout = defaultSinkTimeout
	}
}
