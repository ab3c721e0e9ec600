package env

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"slot_backend/internal/config"
)

type jwtConfig struct {
	AccessTokenKey string        `envconfig:"ACCESS_TOKEN"`
	AccessTokenTTL time.Duration `envconfig:"ACCESS_TOKEN_DURATION" default:"24h"`
}

func NewJWTConfig() (config.JWTConfig, error) {
	var cfg jwtConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if len(cfg.AccessTokenKey) == 0 {
		return nil, fmt.Errorf("access token secret key not found")
	}
	return &cfg, nil
}

func (j *jwtConfig) AccessTokenSecretKey() []byte {
	return []byte(j.AccessTokenKey)
}

func (j *jwtConfig) AccessTokenDuration() time.Duration {
	return j.AccessTokenTTL
}
