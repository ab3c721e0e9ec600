package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"slot_backend/internal/config"
)

type App struct {
	ServiceProvider *ServiceProvider
}

func NewApp() *App {
	return &App{}
}

func (s *App) initServiceProvider() {
	s.ServiceProvider = newServiceProvider()
}

func (s *App) Run() error {
	err := config.Load(".env")
	if err != nil {
		log.WithError(err).Warn("error loading .env file")
	}
	s.initServiceProvider()
	sp := s.ServiceProvider

	if level, err := log.ParseLevel(sp.AppCfg().LogLevel()); err == nil {
		log.SetLevel(level)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Раунды симулятора идут, пока жив процесс
	if simLedger := sp.SimLedger(); simLedger != nil {
		go simLedger.Run(ctx, sp.LedgerCfg().RoundInterval())
	}

	spins := sp.SpinService(ctx)
	if sp.dbClient != nil {
		defer sp.dbClient.Close()
	}
	spins.Start(ctx)
	defer spins.Stop()

	// Спины, не дошедшие до конца в прошлом процессе
	if _, err := spins.Resume(ctx); err != nil {
		return err
	}

	scheduler := sp.Scheduler(ctx)
	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:    sp.HTTPCfg().Address(),
		Handler: sp.Router(ctx),
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("address", srv.Addr).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("shutting down")
	case err := <-errCh:
		return err
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), sp.HTTPCfg().ShutdownTimeout())
	defer stop()
	return srv.Shutdown(shutdownCtx)
}
