package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lkoehl/threesixty-server/config"
)

// ErrInvalidToken covers malformed, tampered and expired tokens alike.
var ErrInvalidToken = errors.New("invalid token")

type EmailClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// IssueToken produces a signed, timestamped token bound to an email address.
// Expiry is only embedded when TOKEN_TTL_HOURS is set; survey links are
// long-lived by default.
func IssueToken(email string) (string, error) {
	secret := []byte(config.Env.TokenSecret)
	if len(secret) == 0 {
		return "", errors.New("TOKEN_SECRET is not set")
	}

	claims := EmailClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if ttl := config.Env.TokenTTLHours; ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Duration(ttl) * time.Hour))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyToken resolves a token back to the email it was issued for.
func VerifyToken(tokenStr string) (string, error) {
	secret := []byte(config.Env.TokenSecret)
	if len(secret) == 0 {
		return "", errors.New("TOKEN_SECRET is not set")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &EmailClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*EmailClaims)
	if !ok || !token.Valid || claims.Email == "" {
		return "", ErrInvalidToken
	}
	return claims.Email, nil
}
