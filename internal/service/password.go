package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrPasswordMismatch means the plaintext does not match the stored hash.
	ErrPasswordMismatch = errors.New("password does not match")
	// ErrHashing means the hash primitive could not run.
	ErrHashing = errors.New("password hashing failed")
)

// maxPasswordBytes is the longest input bcrypt uses without truncation.
const maxPasswordBytes = 72

// PasswordHasher wraps bcrypt with a configurable work factor.
type PasswordHasher struct {
	cost      int
	dummyHash []byte
}

// NewPasswordHasher creates a PasswordHasher using the given bcrypt cost.
// A hash of a throwaway value is computed up front for VerifyDummy.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("musicbackend-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHashing, err)
	}
	return &PasswordHasher{cost: cost, dummyHash: dummy}, nil
}

// Hash returns the bcrypt hash of plaintext.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", fmt.Errorf("%w: password longer than %d bytes", ErrHashing, maxPasswordBytes)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashing, err)
	}
	return string(hashed), nil
}

// Verify compares plaintext against a stored hash in constant time.
func (h *PasswordHasher) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("%w: %v", ErrHashing, err)
	}
}

// VerifyDummy spends the same work as a real Verify against a hash that can
// never match. Used when the login identifier does not exist.
func (h *PasswordHasher) VerifyDummy(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(plaintext))
}
