// Package crypto contains the password hashing primitives used for storing
// and verifying user credentials.
package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost factor used for new password hashes.
const PasswordCost = 10

// MaxPasswordLength is the maximum length in bytes of a password bcrypt can
// hash.
const MaxPasswordLength = 72

// ErrPasswordTooLong is returned when hashing a password longer than
// MaxPasswordLength bytes.
var ErrPasswordTooLong = errors.New("password is too long")

// HashPassword returns the salted bcrypt hash of password. An empty password
// yields an empty string, which is never a valid stored credential.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", nil
	}
	if len(password) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("failed hashing password: %w", err)
	}

	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(hash, password string) bool {
	if hash == "" || password == "" {
		return false
	}

	// Malformed hashes are reported as a mismatch.
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
