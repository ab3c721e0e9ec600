package env

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"slot_backend/internal/config"
)

type httpConfig struct {
	Host    string        `envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port    string        `envconfig:"HTTP_PORT" default:"8080"`
	Origins string        `envconfig:"HTTP_ALLOWED_ORIGINS" default:"*"`
	Timeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

func NewHTTPConfig() (config.HTTPConfig, error) {
	var cfg httpConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *httpConfig) Address() string {
	return c.Host + ":" + c.Port
}

// AllowedOrigins Список через запятую. "*" разрешает любой origin.
func (c *httpConfig) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.Origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *httpConfig) ShutdownTimeout() time.Duration {
	return c.Timeout
}
