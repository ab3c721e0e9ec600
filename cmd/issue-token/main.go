// Команда выпускает access токен игрока для локальной отладки
package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"slot_backend/internal/config"
	"slot_backend/internal/config/env"
	"slot_backend/internal/model"
	"slot_backend/pkg/token"
)

func main() {
	player := flag.String("player", "", "hex player address (32 bytes)")
	flag.Parse()

	if err := config.Load(".env"); err != nil {
		log.WithError(err).Warn("error loading .env file")
	}

	addr, err := model.ParseAddress(*player)
	if err != nil {
		log.WithError(err).Fatal("bad -player")
	}

	cfg, err := env.NewJWTConfig()
	if err != nil {
		log.WithError(err).Fatal("jwt config")
	}

	tok, err := token.GenerateAccessToken(addr, cfg.AccessTokenSecretKey(), cfg.AccessTokenDuration())
	if err != nil {
		log.WithError(err).Fatal("sign token")
	}
	fmt.Fprintln(os.Stdout, tok)
}
