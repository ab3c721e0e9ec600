package middleware

import (
	"context"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"slot_backend/internal/model"
	"slot_backend/pkg/resp"
	"slot_backend/pkg/token"
)

type ctxKey int

const playerKey ctxKey = iota

// PlayerFromContext Адрес игрока, положенный Auth
func PlayerFromContext(ctx context.Context) (model.Address, bool) {
	p, ok := ctx.Value(playerKey).(model.Address)
	return p, ok
}

func WithPlayer(ctx context.Context, player model.Address) context.Context {
	return context.WithValue(ctx, playerKey, player)
}

// Auth Проверяет Bearer токен, subject токена - адрес игрока
func Auth(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				resp.WriteJSONResponse(w, http.StatusUnauthorized, map[string]string{"error": "missing token"})
				return
			}

			player, err := token.PlayerFromToken(raw, secretKey)
			if err != nil {
				log.WithError(err).Debug("reject token")
				resp.WriteJSONResponse(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPlayer(r.Context(), player)))
		})
	}
}
