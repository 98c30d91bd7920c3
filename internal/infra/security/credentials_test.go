//go:build !integration

package security

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	t.Run("should issue distinct secrets that verify against their hash", func(t *testing.T) {
		plain1, hash1, err := h.NewSecret()
		if err != nil {
			t.Fatalf("NewSecret failed: %v", err)
		}
		plain2, _, err := h.NewSecret()
		if err != nil {
			t.Fatalf("NewSecret failed: %v", err)
		}
		if plain1 == plain2 {
			t.Error("expected distinct secrets")
		}
		if hash1 == plain1 {
			t.Error("hash must not equal the plaintext")
		}
		if !h.Compare(hash1, plain1) {
			t.Error("expected secret to match its hash")
		}
		if h.Compare(hash1, plain2) {
			t.Error("expected a different secret not to match")
		}
	})

	t.Run("should reject malformed hashes", func(t *testing.T) {
		if h.Compare("not-a-hash", "x") {
			t.Error("expected malformed hash to fail")
		}
	})

	t.Run("should fall back to default cost", func(t *testing.T) {
		if NewHasher(100).cost != bcrypt.DefaultCost {
			t.Error("expected default cost for out-of-range value")
		}
	})
}
