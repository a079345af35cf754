// Package auth hashes passwords, issues session tokens and authenticates
// HTTP requests.
package auth

import (
	"errors"
	"fmt"

	"github.com/iwvelando/finance-dashboard/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", apperr.NewValidationError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares password with hash. A mismatch is reported as
// apperr.ErrUnauthorized.
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	}
	return fmt.Errorf("failed to check password: %w", err)
}
