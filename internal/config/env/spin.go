package env

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"slot_backend/internal/config"
)

type spinConfig struct {
	MinInterval time.Duration `envconfig:"SPIN_MIN_INTERVAL" default:"1s"`
	Poll        time.Duration `envconfig:"SPIN_POLL_INTERVAL" default:"500ms"`
	PollTries   uint          `envconfig:"SPIN_POLL_ATTEMPTS" default:"60"`
	Reveal      time.Duration `envconfig:"SPIN_REVEAL_INTERVAL" default:"1s"`
	RevealTries uint          `envconfig:"SPIN_REVEAL_ATTEMPTS" default:"10"`
	Tolerance   uint64        `envconfig:"SPIN_PAYOUT_TOLERANCE" default:"1"`
	MaxChained  int           `envconfig:"SPIN_MAX_CHAINED" default:"80"`
	WorkerCount int           `envconfig:"SPIN_WORKERS" default:"8"`
	Queue       int           `envconfig:"SPIN_QUEUE_SIZE" default:"1024"`
	SessionIdle time.Duration `envconfig:"SPIN_SESSION_IDLE_TTL" default:"30m"`
}

func NewSpinConfig() (config.SpinConfig, error) {
	var cfg spinConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.WorkerCount <= 0 || cfg.Queue <= 0 {
		return nil, fmt.Errorf("SPIN_WORKERS and SPIN_QUEUE_SIZE must be > 0")
	}
	if cfg.PollTries == 0 || cfg.RevealTries == 0 {
		return nil, fmt.Errorf("SPIN_POLL_ATTEMPTS and SPIN_REVEAL_ATTEMPTS must be > 0")
	}
	return &cfg, nil
}

func (c *spinConfig) MinSpinInterval() time.Duration { return c.MinInterval }
func (c *spinConfig) PollInterval() time.Duration    { return c.Poll }
func (c *spinConfig) PollAttempts() uint             { return c.PollTries }
func (c *spinConfig) RevealInterval() time.Duration  { return c.Reveal }
func (c *spinConfig) RevealAttempts() uint           { return c.RevealTries }
func (c *spinConfig) PayoutTolerance() uint64        { return c.Tolerance }
func (c *spinConfig) MaxChainedSpins() int           { return c.MaxChained }
func (c *spinConfig) Workers() int                   { return c.WorkerCount }
func (c *spinConfig) QueueSize() int                 { return c.Queue }
func (c *spinConfig) SessionIdleTTL() time.Duration  { return c.SessionIdle }
