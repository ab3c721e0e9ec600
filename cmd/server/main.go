package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"slot_backend/internal/app"
)

func main() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)

	if err := app.NewApp().Run(); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
