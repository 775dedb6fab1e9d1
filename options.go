package throng

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Option configures a Pool.
type Option func(*Config)

// Config holds all configuration options for a pool.
type Config struct {
	// SizeLimit is the maximum number of workers the pool will ever run.
	// Requests above it fail with ErrSizeLimit; they are never clamped.
	// Defaults to runtime.NumCPU().
	SizeLimit int

	// PollInterval bounds how long an idle worker sleeps before
	// re-checking pause, retirement and finish signals. It trades wakeup
	// latency for idle wakeups. Defaults to 50ms.
	PollInterval time.Duration

	// Logger receives worker lifecycle events at Debug level and work
	// item panics at Error level. Defaults to a no-op logger.
	Logger *zap.Logger

	// PanicHandler, if set, is called with the recovered value whenever a
	// work item panics. The panic is reported through Logger either way;
	// it never terminates the worker or the pool.
	PanicHandler func(any)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SizeLimit:    runtime.NumCPU(),
		PollInterval: 50 * time.Millisecond,
		Logger:       zap.NewNop(),
	}
}

// WithSizeLimit raises or lowers the worker-count ceiling.
func WithSizeLimit(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.SizeLimit = n
		}
	}
}

// WithPollInterval sets how often parked workers re-check control signals.
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.PollInterval = d
		}
	}
}

// WithLogger sets the logger used for lifecycle events and item panics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithPanicHandler sets a callback invoked with recovered panic values.
func WithPanicHandler(fn func(any)) Option {
	return func(c *Config) {
		c.PanicHandler = fn
	}
}

// validate checks the configuration and returns an error if invalid.
func (c *Config) validate() error {
	if c.SizeLimit <= 0 {
		return errInvalidConfig("SizeLimit must be > 0")
	}
	if c.PollInterval <= 0 {
		return errInvalidConfig("PollInterval must be > 0")
	}
	if c.Logger == nil {
		return errInvalidConfig("Logger must not be nil")
	}
	return nil
}
