package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// AdminCredentials is the single account allowed to log in.
type AdminCredentials struct {
	Username     string
	PasswordHash string // bcrypt
}

// Check reports whether username and password match the admin account.
func (a AdminCredentials) Check(username, password string) bool {
	if a.PasswordHash == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
	return userOK && passErr == nil
}

// HashPassword returns a bcrypt hash suitable for CARDS_ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
