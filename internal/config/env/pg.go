package env

import (
	"errors"

	"github.com/kelseyhightower/envconfig"

	"slot_backend/internal/config"
)

type pgConfig struct {
	Dsn string `envconfig:"PG_DSN"`
	Max int32  `envconfig:"PG_MAX_CONNS" default:"25"`
	Min int32  `envconfig:"PG_MIN_CONNS" default:"2"`
}

func NewPGConfig() (config.PGConfig, error) {
	var cfg pgConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Dsn) == 0 {
		return nil, errors.New("pg dsn not found")
	}
	return &cfg, nil
}

func (cfg *pgConfig) DSN() string {
	return cfg.Dsn
}

func (cfg *pgConfig) MaxConns() int32 {
	return cfg.Max
}

func (cfg *pgConfig) MinConns() int32 {
	return cfg.Min
}
