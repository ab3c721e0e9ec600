package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"slot_backend/internal/model"
	"slot_backend/pkg/token"
)

func TestAuth(t *testing.T) {
	secret := []byte("secret")
	player := model.Address{0x01, 0x02}

	var got model.Address
	h := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = PlayerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	valid, err := token.GenerateAccessToken(player, secret, time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
	if got != player {
		t.Errorf("player in context = %s", got)
	}
}

func TestOrigin(t *testing.T) {
	h := Origin([]string{"https://play.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		origin string
		status int
	}{
		{"", http.StatusOK},
		{"https://play.example", http.StatusOK},
		{"https://evil.example", http.StatusForbidden},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodPost, "/game/message", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != tt.status {
			t.Errorf("origin %q: status = %d, want %d", tt.origin, w.Code, tt.status)
		}
		if tt.status == http.StatusForbidden && !strings.Contains(w.Body.String(), "UNAUTHORIZED_ORIGIN") {
			t.Errorf("body = %s", w.Body.String())
		}
	}
}
