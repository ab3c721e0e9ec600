package env

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"slot_backend/internal/config"
	"slot_backend/internal/model"
)

type gameConfig struct {
	Contract string  `envconfig:"GAME_CONTRACT_ID" default:"ways-5x3"`
	Mode     string  `envconfig:"GAME_DEFAULT_MODE" default:"credit"`
	Paylines int     `envconfig:"GAME_MAX_PAYLINES" default:"1"`
	RTP      float64 `envconfig:"GAME_RTP_TARGET" default:"96.0"`
	Edge     float64 `envconfig:"GAME_HOUSE_EDGE" default:"4.0"`
	Batch    int     `envconfig:"GAME_EVENT_BATCH" default:"50"`

	mode model.Mode
}

func NewGameConfig() (config.GameConfig, error) {
	var cfg gameConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	m, err := model.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	if m == model.ModeBonus {
		return nil, fmt.Errorf("GAME_DEFAULT_MODE cannot be bonus")
	}
	if cfg.Paylines <= 0 {
		return nil, fmt.Errorf("GAME_MAX_PAYLINES must be > 0")
	}
	cfg.mode = m
	return &cfg, nil
}

func (c *gameConfig) ContractID() string      { return c.Contract }
func (c *gameConfig) DefaultMode() model.Mode { return c.mode }
func (c *gameConfig) MaxPaylines() int        { return c.Paylines }
func (c *gameConfig) RTPTarget() float64      { return c.RTP }
func (c *gameConfig) HouseEdge() float64      { return c.Edge }
func (c *gameConfig) EventBatch() int         { return c.Batch }
