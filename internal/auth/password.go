package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid password")

// OwnerAuthenticator verifies the ledger owner's password against a bcrypt
// hash supplied through configuration. There is no user table: the deployment
// belongs to exactly one person.
type OwnerAuthenticator struct {
	passwordHash []byte
}

// NewOwnerAuthenticator creates an authenticator for the given bcrypt hash.
func NewOwnerAuthenticator(passwordHash string) *OwnerAuthenticator {
	return &OwnerAuthenticator{passwordHash: []byte(passwordHash)}
}

// Authenticate verifies the owner's password.
func (a *OwnerAuthenticator) Authenticate(password string) error {
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
