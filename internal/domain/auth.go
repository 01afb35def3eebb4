// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// User is a credential record. PasswordHash is empty for accounts
// provisioned through single sign-on.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository defines the port for credential persistence.
// Lookups return (nil, nil) when no row matches.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	// Create fails with an error wrapping ErrConflict when the username is taken.
	Create(ctx context.Context, username, passwordHash string) (*User, error)
}

// ValidateCredentials checks registration input.
func ValidateCredentials(username, password string) error {
	if len(password) < 4 {
		return fmt.Errorf("%w: password is too short", ErrValidation)
	}
	if len(username) < 3 {
		return fmt.Errorf("%w: username is too short", ErrValidation)
	}
	if strings.ContainsFunc(username, unicode.IsSpace) || !isAlnum(username) {
		return fmt.Errorf("%w: username should be alphanumeric and have no spaces", ErrValidation)
	}
	return nil
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
