package config

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"

	"github.com/prasdif/library-system/library"
	"github.com/prasdif/library-system/logger"
)

const envPrefix = "LIBRARY"

type Config struct {
	LoanDays int    `envconfig:"LOAN_DAYS"`
	SeedPath string `envconfig:"SEED_PATH"`
	Log      logger.Log
}

type Option func(*Config)

func WithLoanDays(days int) Option {
	return func(c *Config) { c.LoanDays = days }
}

func WithSeedPath(path string) Option {
	return func(c *Config) { c.SeedPath = path }
}

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) { c.Log.LogLevel = level }
}

// NewConfig applies the options over the defaults, then lets LIBRARY_*
// environment variables override them.
func NewConfig(ops ...Option) (Config, error) {
	cfg := Config{
		LoanDays: library.DefaultLoanDays,
		Log:      logger.Log{LogLevel: zapcore.InfoLevel},
	}
	for _, op := range ops {
		op(&cfg)
	}
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "read env")
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.LoanDays < 1 {
		return errors.Errorf("loan period must be at least one day, got %d", c.LoanDays)
	}
	return nil
}
