package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SubjectID извлекает sub из access token без проверки подписи.
// Подпись проверяет backend; клиенту нужен только ID пользователя.
func SubjectID(accessToken string) (string, error) {
	claims, err := parseClaims(accessToken)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrNoSubject
	}
	return claims.Subject, nil
}

// ExpiresAt возвращает время истечения access token (exp)
func ExpiresAt(accessToken string) (time.Time, error) {
	claims, err := parseClaims(accessToken)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("access token has no expiry")
	}
	return claims.ExpiresAt.Time, nil
}

func parseClaims(accessToken string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil, fmt.Errorf("failed to decode access token: %w", err)
	}
	return claims, nil
}
