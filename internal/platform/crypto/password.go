package crypto

import (
	"fmt"

	"credential_service_backend/internal/config"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

// maxPasswordBytes is the bcrypt input limit. Longer input is truncated before
// hashing and verifying, so passwords have no upper length bound.
const maxPasswordBytes = 72

// PasswordHasher hashes passwords one-way and verifies candidates against stored hashes.
type PasswordHasher interface {
	// Hash returns a salted hash; two calls with the same input differ.
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches hash. Malformed or empty hashes never match.
	Verify(plaintext, hash string) bool
}

// BcryptHasher implements PasswordHasher with bcrypt.
type BcryptHasher struct {
	cost int
}

var _ PasswordHasher = (*BcryptHasher)(nil)

// NewBcryptHasher creates a hasher using cfg.BcryptCost, or DefaultCost when unset.
func NewBcryptHasher(cfg *config.Config) *BcryptHasher {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash produces a bcrypt hash of plaintext at the configured cost.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(truncate(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify compares plaintext with hash in constant time.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(plaintext)) == nil
}

func truncate(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
