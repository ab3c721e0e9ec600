package model

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Address Адрес игрока (32 байта)
type Address [32]byte

func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// IsZero Адрес не задан
func (a Address) IsZero() bool {
	return a == Address{}
}

// ParseAddress Адрес из hex строки (допускается префикс 0x)
func ParseAddress(s string) (Address, error) {
	var a Address
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return a, fmt.Errorf("invalid address: %w", err)
	}
	if len(b) != len(a) {
		return a, fmt.Errorf("invalid address length %d", len(b))
	}
	copy(a[:], b)
	return a, nil
}

// PlayerClaims Клеймы access токена. Subject - адрес игрока.
type PlayerClaims struct {
	jwt.RegisteredClaims
}
