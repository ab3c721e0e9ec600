// Симулятор леджера как отдельный HTTP сервис для LEDGER_MODE=gateway
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"slot_backend/internal/app"
	"slot_backend/internal/config"
	"slot_backend/internal/config/env"
	"slot_backend/internal/ledger/gateway"
)

func main() {
	addr := flag.String("addr", ":8090", "listen address")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := config.Load(".env"); err != nil {
		log.WithError(err).Warn("error loading .env file")
	}
	cfg, err := env.NewLedgerConfig()
	if err != nil {
		log.WithError(err).Fatal("ledger config")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	l := app.NewSimLedger(cfg)
	go l.Run(ctx, cfg.RoundInterval())

	srv := &http.Server{Addr: *addr, Handler: gateway.NewHandler(l).Routes()}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithField("address", *addr).Info("ledger simulator listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("ledger simulator stopped")
		os.Exit(1)
	}
}
