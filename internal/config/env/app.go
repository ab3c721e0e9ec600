package env

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"slot_backend/internal/config"
)

type appConfig struct {
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	// postgres или memory
	AppStorage string `envconfig:"STORAGE" default:"postgres"`
}

func NewAppConfig() (config.AppConfig, error) {
	var cfg appConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	switch cfg.AppStorage {
	case "postgres", "memory":
	default:
		return nil, fmt.Errorf("unknown STORAGE %q", cfg.AppStorage)
	}
	return &cfg, nil
}

func (c *appConfig) Env() string {
	return c.AppEnv
}

func (c *appConfig) LogLevel() string {
	return c.AppLogLevel
}

func (c *appConfig) Storage() string {
	return c.AppStorage
}
