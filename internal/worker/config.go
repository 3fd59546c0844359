package worker

import (
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds worker pool, retry, and sweeper parameters.
type Config struct {
	// Workers is the number of concurrent pool goroutines.
	Workers int `toml:"workers" validate:"min=1,max=64"`
	// FanOut bounds concurrent criterion assessments within one evaluation.
	FanOut int `toml:"fan_out" validate:"min=1,max=32"`
	// MaxAttempts bounds retries per criterion for retryable failures.
	MaxAttempts  int           `toml:"max_attempts" validate:"min=1,max=10"`
	BackoffBase  time.Duration `toml:"backoff_base" validate:"min=0"`
	BackoffMax   time.Duration `toml:"backoff_max" validate:"min=0"`
	// Visibility is the queue lease window; an unacknowledged message is
	// redelivered after it elapses.
	Visibility   time.Duration `toml:"visibility" validate:"min=1s"`
	PollInterval time.Duration `toml:"poll_interval" validate:"min=100ms"`
	// SweepSchedule is a cron expression for the stale-claim sweeper.
	SweepSchedule string `toml:"sweep_schedule" validate:"required"`
	// Staleness is how long a processing claim may sit without result
	// writes before the sweeper resets it to pending.
	Staleness time.Duration `toml:"staleness" validate:"min=1m"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Workers       string
	FanOut        string
	MaxAttempts   string
	SweepSchedule string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.FanOut != 0 {
		c.FanOut = overlay.FanOut
	}
	if overlay.MaxAttempts != 0 {
		c.MaxAttempts = overlay.MaxAttempts
	}
	if overlay.BackoffBase != 0 {
		c.BackoffBase = overlay.BackoffBase
	}
	if overlay.BackoffMax != 0 {
		c.BackoffMax = overlay.BackoffMax
	}
	if overlay.Visibility != 0 {
		c.Visibility = overlay.Visibility
	}
	if overlay.PollInterval != 0 {
		c.PollInterval = overlay.PollInterval
	}
	if overlay.SweepSchedule != "" {
		c.SweepSchedule = overlay.SweepSchedule
	}
	if overlay.Staleness != 0 {
		c.Staleness = overlay.Staleness
	}
}

func (c *Config) loadDefaults() {
	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.FanOut == 0 {
		c.FanOut = 3
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.BackoffBase == 0 {
		c.BackoffBase = time.Second
	}
	if c.BackoffMax == 0 {
		c.BackoffMax = 30 * time.Second
	}
	if c.Visibility == 0 {
		c.Visibility = 5 * time.Minute
	}
	if c.PollInterval == 0 {
		c.PollInterval = 2 * time.Second
	}
	if c.SweepSchedule == "" {
		c.SweepSchedule = "@every 1m"
	}
	if c.Staleness == 0 {
		c.Staleness = 10 * time.Minute
	}
}

func (c *Config) loadEnv(env *Env) {
	loadInt := func(name string, target *int) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*target = n
			}
		}
	}

	loadInt(env.Workers, &c.Workers)
	loadInt(env.FanOut, &c.FanOut)
	loadInt(env.MaxAttempts, &c.MaxAttempts)

	if env.SweepSchedule != "" {
		if v := os.Getenv(env.SweepSchedule); v != "" {
			c.SweepSchedule = v
		}
	}
}

func (c *Config) validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}
