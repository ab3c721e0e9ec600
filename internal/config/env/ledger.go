package env

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"slot_backend/internal/config"
)

type ledgerConfig struct {
	// gateway или sim
	LedgerMode   string        `envconfig:"LEDGER_MODE" default:"sim"`
	URL          string        `envconfig:"LEDGER_GATEWAY_URL"`
	Timeout      time.Duration `envconfig:"LEDGER_TIMEOUT" default:"5s"`
	Params       string        `envconfig:"LEDGER_PARAMS_FILE" default:"configs/machine.yaml"`
	Round        time.Duration `envconfig:"LEDGER_ROUND_INTERVAL" default:"1s"`
	Contribution uint64        `envconfig:"LEDGER_JACKPOT_CONTRIBUTION" default:"1"`
	Credits      uint64        `envconfig:"LEDGER_STARTING_CREDITS" default:"1000"`
}

func NewLedgerConfig() (config.LedgerConfig, error) {
	var cfg ledgerConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	switch cfg.LedgerMode {
	case "sim":
	case "gateway":
		if cfg.URL == "" {
			return nil, fmt.Errorf("LEDGER_GATEWAY_URL is required in gateway mode")
		}
	default:
		return nil, fmt.Errorf("unknown LEDGER_MODE %q", cfg.LedgerMode)
	}
	return &cfg, nil
}

func (c *ledgerConfig) Mode() string                  { return c.LedgerMode }
func (c *ledgerConfig) GatewayURL() string            { return c.URL }
func (c *ledgerConfig) RequestTimeout() time.Duration { return c.Timeout }
func (c *ledgerConfig) ParamsFile() string            { return c.Params }
func (c *ledgerConfig) RoundInterval() time.Duration  { return c.Round }
func (c *ledgerConfig) JackpotContribution() uint64   { return c.Contribution }
func (c *ledgerConfig) StartingCredits() uint64       { return c.Credits }
