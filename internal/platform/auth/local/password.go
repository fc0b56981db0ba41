// Package local provides password hashing for local credential login.
package local

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidPassword  = errors.New("invalid password")
	ErrPasswordMismatch = errors.New("password mismatch")
	ErrPasswordTooWeak  = errors.New("password does not meet requirements")
)

const (
	// DefaultBcryptCost is the default bcrypt cost factor
	DefaultBcryptCost = 10

	// MinPasswordLength is the minimum password length
	MinPasswordLength = 8
)

// PasswordService handles password hashing and validation
type PasswordService struct {
	bcryptCost int
}

// NewPasswordService creates a new password service
func NewPasswordService() *PasswordService {
	return &PasswordService{
		bcryptCost: DefaultBcryptCost,
	}
}

// HashPassword hashes a password using bcrypt
// For passwords longer than 72 bytes (bcrypt's limit), we pre-hash with SHA-256
func (s *PasswordService) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword(s.preparePassword(password), s.bcryptCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// preparePassword handles passwords longer than bcrypt's 72-byte limit
// by pre-hashing them with SHA-256
func (s *PasswordService) preparePassword(password string) []byte {
	passwordBytes := []byte(password)
	if len(passwordBytes) <= 72 {
		return passwordBytes
	}
	hash := sha256.Sum256(passwordBytes)
	encoded := base64.StdEncoding.EncodeToString(hash[:])
	return []byte(encoded)
}

// VerifyPassword verifies a password against a hash
func (s *PasswordService) VerifyPassword(password, hash string) error {
	if password == "" || hash == "" {
		return ErrPasswordMismatch
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), s.preparePassword(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return err
	}

	return nil
}

// ValidatePasswordStrength checks if a password meets minimum requirements
func (s *PasswordService) ValidatePasswordStrength(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooWeak
	}
	return nil
}

// NormalizeEmail normalizes an email address to lowercase
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
