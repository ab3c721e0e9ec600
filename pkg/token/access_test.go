package token

import (
	"testing"
	"time"

	"slot_backend/internal/model"
)

func TestAccessToken(t *testing.T) {
	secret := []byte("secret")
	player := model.Address{0xab, 0xcd}

	tok, err := GenerateAccessToken(player, secret, time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	got, err := PlayerFromToken(tok, secret)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != player {
		t.Errorf("player = %s, want %s", got, player)
	}

	if _, err := VerifyToken(tok, []byte("other")); err == nil {
		t.Error("token accepted with wrong key")
	}

	expired, err := GenerateAccessToken(player, secret, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := VerifyToken(expired, secret); err == nil {
		t.Error("expired token accepted")
	}
}
