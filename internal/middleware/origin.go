package middleware

import (
	"net/http"
	"slices"

	log "github.com/sirupsen/logrus"

	"slot_backend/internal/common"
	"slot_backend/internal/converter"
	"slot_backend/pkg/resp"
)

// Origin Пропускает запросы только с разрешенных origin. Запросы без заголовка Origin не браузерные и проходят.
func Origin(allowed []string) func(http.Handler) http.Handler {
	wildcard := slices.Contains(allowed, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || wildcard || slices.Contains(allowed, origin) {
				next.ServeHTTP(w, r)
				return
			}

			log.WithField("origin", origin).Warn("rejected origin")
			resp.WriteJSONResponse(w, http.StatusForbidden, converter.ToError(common.ErrUnauthorizedOrigin, ""))
		})
	}
}
