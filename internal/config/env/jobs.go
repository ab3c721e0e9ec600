package env

import (
	"github.com/kelseyhightower/envconfig"

	"slot_backend/internal/config"
)

type jobsConfig struct {
	Resume string `envconfig:"JOBS_RESUME_SPEC" default:"@every 30s"`
	Prune  string `envconfig:"JOBS_PRUNE_SPEC" default:"@every 5m"`
}

func NewJobsConfig() (config.JobsConfig, error) {
	var cfg jobsConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *jobsConfig) ResumeSpec() string {
	return c.Resume
}

func (c *jobsConfig) PruneSpec() string {
	return c.Prune
}
