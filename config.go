package scout

import (
	"fmt"
	"io"
	"strings"

	"github.com/xraph/go-utils/errs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// ThreadSafetyMode selects the synchronization of a scope builder.
type ThreadSafetyMode int

const (
	// Unsafe performs no synchronization and no checks.
	Unsafe ThreadSafetyMode = iota

	// Confined fails any builder call made from a goroutine other than the
	// first caller. Meant for debug builds.
	Confined

	// Synchronized guards every builder call with a single mutex.
	Synchronized
)

// String returns the mode name.
func (m ThreadSafetyMode) String() string {
	switch m {
	case Unsafe:
		return "unsafe"
	case Confined:
		return "confined"
	case Synchronized:
		return "synchronized"
	default:
		return fmt.Sprintf("ThreadSafetyMode(%d)", int(m))
	}
}

// ParseThreadSafetyMode parses a mode name, case-insensitively.
func ParseThreadSafetyMode(s string) (ThreadSafetyMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unsafe":
		return Unsafe, nil
	case "confined":
		return Confined, nil
	case "synchronized":
		return Synchronized, nil
	default:
		return Unsafe, newInvalidConfig("thread_safety", fmt.Errorf("unknown mode %q", s))
	}
}

// Config is the context shared by every scope built with it: the interceptor
// registry, the default builder mode and the logger.
type Config struct {
	interceptors        *Interceptors
	threadSafety        ThreadSafetyMode
	disableInterceptors bool
	logger              *zap.Logger
}

// ConfigOption configures a Config.
type ConfigOption func(*Config)

// WithThreadSafety sets the default builder mode.
func WithThreadSafety(mode ThreadSafetyMode) ConfigOption {
	return func(c *Config) {
		c.threadSafety = mode
	}
}

// WithoutInterceptors makes scopes built with the config use a direct
// accessor, skipping the interceptor pipeline entirely.
func WithoutInterceptors() ConfigOption {
	return func(c *Config) {
		c.disableInterceptors = true
	}
}

// WithLogger sets the logger used by builders and scopes.
func WithLogger(logger *zap.Logger) ConfigOption {
	return func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithInterceptors shares an existing interceptor registry.
func WithInterceptors(interceptors *Interceptors) ConfigOption {
	return func(c *Config) {
		if interceptors != nil {
			c.interceptors = interceptors
		}
	}
}

// NewConfig creates a config with an empty interceptor registry, Unsafe
// builders and a no-op logger.
func NewConfig(opts ...ConfigOption) *Config {
	c := &Config{
		interceptors: NewInterceptors(),
		threadSafety: Unsafe,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.interceptors.useLogger(c.logger)
	return c
}

var defaultConfig = NewConfig()

// Default returns the process-wide config used by builders created without
// WithConfig.
func Default() *Config {
	return defaultConfig
}

// Interceptors returns the interceptor registry.
func (c *Config) Interceptors() *Interceptors {
	return c.interceptors
}

// ThreadSafety returns the default builder mode.
func (c *Config) ThreadSafety() ThreadSafetyMode {
	return c.threadSafety
}

// InterceptorsDisabled reports whether scopes bypass the interceptor pipeline.
func (c *Config) InterceptorsDisabled() bool {
	return c.disableInterceptors
}

// Logger returns the configured logger.
func (c *Config) Logger() *zap.Logger {
	return c.logger
}

// fileConfig is the YAML representation of a Config.
type fileConfig struct {
	ThreadSafety        string `yaml:"thread_safety"`
	DisableInterceptors bool   `yaml:"disable_interceptors"`
	LogLevel            string `yaml:"log_level"`
}

// LoadConfig reads a YAML document:
//
//	thread_safety: synchronized   # unsafe | confined | synchronized
//	disable_interceptors: false
//	log_level: debug              # empty keeps the no-op logger
//
// Options are applied after the file and take precedence.
func LoadConfig(r io.Reader, opts ...ConfigOption) (*Config, error) {
	var fc fileConfig
	if err := yaml.NewDecoder(r).Decode(&fc); err != nil && err != io.EOF {
		return nil, errs.NewError(CodeInvalidConfig, "decode scout config", err)
	}

	mode, err := ParseThreadSafetyMode(fc.ThreadSafety)
	if err != nil {
		return nil, err
	}

	base := []ConfigOption{WithThreadSafety(mode)}
	if fc.DisableInterceptors {
		base = append(base, WithoutInterceptors())
	}

	if fc.LogLevel != "" {
		level, err := zapcore.ParseLevel(fc.LogLevel)
		if err != nil {
			return nil, newInvalidConfig("log_level", err)
		}

		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(level)
		logger, err := zc.Build()
		if err != nil {
			return nil, errs.NewError(CodeInvalidConfig, "build scout logger", err)
		}
		base = append(base, WithLogger(logger))
	}

	return NewConfig(append(base, opts...)...), nil
}
