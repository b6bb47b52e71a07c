package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashAdminKey is used by deploy tooling to produce ADMIN_KEY_HASH.
func HashAdminKey(key string) (string, error) {
	if key == "" {
		return "", errors.New("empty admin key")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	return string(hash), err
}

func VerifyAdminKey(hashed, key string) bool {
	if hashed == "" || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(key)) == nil
}
