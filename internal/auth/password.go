package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/Additional-Code/playground/internal/config"
)

// Hasher hashes and verifies password credentials with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher builds a Hasher using the configured bcrypt cost.
func NewHasher(cfg config.Config) *Hasher {
	cost := cfg.Auth.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the one-way hash for a plaintext password.
func (h *Hasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether the plaintext password matches the stored hash.
func (h *Hasher) Verify(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
