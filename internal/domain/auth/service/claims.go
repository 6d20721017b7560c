package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// parseClaims читает claims токена без проверки подписи: ключ есть только у сервера
func parseClaims(token string) (jwt.MapClaims, bool) {
	if token == "" {
		return nil, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// UserIDFromToken достает идентификатор пользователя из user_id, id или sub
func UserIDFromToken(token string) string {
	claims, ok := parseClaims(token)
	if !ok {
		return ""
	}
	for _, key := range []string{"user_id", "userId", "id", "sub"} {
		switch v := claims[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}

// TokenExpiry срок действия токена, если он указан
func TokenExpiry(token string) (time.Time, bool) {
	claims, ok := parseClaims(token)
	if !ok {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
