package engine

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config holds the per-table engine settings. Derived tables inherit the
// config of the table they were computed from.
type Config struct {
	// AutoIndex builds and registers an index the first time a lookup or
	// join needs one
	AutoIndex bool

	// Workers > 1 evaluates filter predicates in parallel chunks
	Workers int `validate:"gte=1,lte=256"`

	// ParallelThreshold is the minimum row count for parallel filtering
	ParallelThreshold int `validate:"gte=0"`

	// JoinSuffix renames right-side columns that collide with left ones
	JoinSuffix string `validate:"required"`

	Logger *slog.Logger `validate:"-"`
}

// Option configures a Config
type Option func(*Config)

// DefaultConfig returns the settings used when no option is given
func DefaultConfig() Config {
	return Config{
		AutoIndex:         false,
		Workers:           1,
		ParallelThreshold: 50_000,
		JoinSuffix:        "_right",
	}
}

// WithAutoIndex enables automatic index creation
func WithAutoIndex(enabled bool) Option {
	return func(c *Config) { c.AutoIndex = enabled }
}

// WithWorkers sets the number of parallel filter workers
func WithWorkers(n int) Option {
	return func(c *Config) { c.Workers = n }
}

// WithParallelThreshold sets the row count above which filters run in parallel
func WithParallelThreshold(rows int) Option {
	return func(c *Config) { c.ParallelThreshold = rows }
}

// WithJoinSuffix sets the suffix for colliding right-side join columns
func WithJoinSuffix(suffix string) Option {
	return func(c *Config) { c.JoinSuffix = suffix }
}

// WithLogger sets the logger used by the table and its derived tables
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// WithConfig replaces the whole config
func WithConfig(cfg Config) Option {
	return func(c *Config) { *c = cfg }
}

var validate = validator.New()

// Validate checks the config's bounds
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// NewConfig applies opts to DefaultConfig and validates the result
func NewConfig(opts ...Option) (Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ConfigFromEnv reads DATATABLE_AUTO_INDEX, DATATABLE_WORKERS,
// DATATABLE_PARALLEL_THRESHOLD and DATATABLE_JOIN_SUFFIX on top of the
// defaults.
func ConfigFromEnv() (Config, error) {
	def := DefaultConfig()

	autoIndex, err := strconv.ParseBool(GetEnvOrDefault("DATATABLE_AUTO_INDEX", strconv.FormatBool(def.AutoIndex)))
	if err != nil {
		return Config{}, fmt.Errorf("DATATABLE_AUTO_INDEX: %w", err)
	}
	workers, err := GetEnvOrDefaultInt("DATATABLE_WORKERS", def.Workers)
	if err != nil {
		return Config{}, err
	}
	threshold, err := GetEnvOrDefaultInt("DATATABLE_PARALLEL_THRESHOLD", def.ParallelThreshold)
	if err != nil {
		return Config{}, err
	}

	return NewConfig(
		WithAutoIndex(autoIndex),
		WithWorkers(workers),
		WithParallelThreshold(threshold),
		WithJoinSuffix(GetEnvOrDefault("DATATABLE_JOIN_SUFFIX", def.JoinSuffix)),
	)
}

// GetEnvOrDefault returns the environment variable or defaultVal when unset
func GetEnvOrDefault(env, defaultVal string) string {
	e := os.Getenv(env)
	if e == "" {
		return defaultVal
	}
	return e
}

// GetEnvOrDefaultInt parses an integer environment variable
func GetEnvOrDefaultInt(env string, defaultVal int) (int, error) {
	e := os.Getenv(env)
	if e == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(e)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s=%q as int: %w", env, e, err)
	}
	return v, nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
