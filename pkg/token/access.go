package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"slot_backend/internal/model"
)

// GenerateAccessToken Токен сессии игрока. Subject - hex адрес.
func GenerateAccessToken(player model.Address, secretKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := model.PlayerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   player.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secretKey)
}

func VerifyToken(tokenStr string, secretKey []byte) (*model.PlayerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &model.PlayerClaims{}, func(token *jwt.Token) (interface{}, error) {
		_, ok := token.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, errors.New("unexpected token signing method")
		}

		return secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %v", err)
	}

	claims, ok := token.Claims.(*model.PlayerClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// PlayerFromToken Проверяет токен и возвращает адрес игрока из subject
func PlayerFromToken(tokenStr string, secretKey []byte) (model.Address, error) {
	claims, err := VerifyToken(tokenStr, secretKey)
	if err != nil {
		return model.Address{}, err
	}
	return model.ParseAddress(claims.Subject)
}
