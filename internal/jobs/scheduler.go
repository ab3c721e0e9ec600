// Package jobs Фоновые задачи по расписанию: дожим незавершенных спинов и чистка сессий.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"slot_backend/internal/config"
	"slot_backend/internal/service"
)

type Scheduler struct {
	cron *cron.Cron
	spin service.SpinService
	cfg  config.JobsConfig
}

func NewScheduler(spin service.SpinService, cfg config.JobsConfig) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC)),
		spin: spin,
		cfg:  cfg,
	}
}

// Start Регистрирует задачи и запускает планировщик
func (s *Scheduler) Start(ctx context.Context) error {
	// Спины, застрявшие на временных ошибках, снова ставятся в очередь
	_, err := s.cron.AddFunc(s.cfg.ResumeSpec(), func() {
		if _, err := s.spin.Resume(ctx); err != nil {
			log.WithError(err).Error("[CRON] resume unsettled spins")
		}
	})
	if err != nil {
		return fmt.Errorf("resume job %q: %w", s.cfg.ResumeSpec(), err)
	}

	_, err = s.cron.AddFunc(s.cfg.PruneSpec(), func() {
		if n := s.spin.PruneSessions(time.Now()); n > 0 {
			log.WithField("sessions", n).Debug("[CRON] pruned idle sessions")
		}
	})
	if err != nil {
		return fmt.Errorf("prune job %q: %w", s.cfg.PruneSpec(), err)
	}

	s.cron.Start()
	log.Info("scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("scheduler stopped")
}
