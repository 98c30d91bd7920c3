package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const secretBytes = 24

// Hasher issues device secrets and checks bcrypt hashes. Only the hash is
// ever stored; the plaintext secret is returned to the operator once.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using cost, or bcrypt.DefaultCost when cost is out of range.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// NewSecret returns a random URL-safe secret and its bcrypt hash.
func (h *Hasher) NewSecret() (plain, hash string, err error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("rand secret: %w", err)
	}
	plain = base64.RawURLEncoding.EncodeToString(buf)
	hash, err = h.Hash(plain)
	if err != nil {
		return "", "", err
	}
	return plain, hash, nil
}

func (h *Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// Compare reports whether plain matches hash. Malformed hashes never match.
func (h *Hasher) Compare(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
