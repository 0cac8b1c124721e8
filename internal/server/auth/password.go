// Package auth implements the cryptographic building blocks of the service:
// password hashing, access token signing/verification and reset secrets.
package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// Hasher performs one-way password hashing with a tunable bcrypt cost.
// It is stateless and safe for concurrent use.
type Hasher struct {
	cost      int
	dummyHash []byte
}

// NewHasher returns a Hasher with the given bcrypt cost. Costs outside the
// bcrypt range are clamped to the default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// Pre-computed hash of an unguessable value, used by DummyVerify so the
	// unknown-account path costs the same as a real comparison.
	dummy, err := bcrypt.GenerateFromPassword([]byte("authcore-dummy-password"), cost)
	if err != nil {
		panic(err)
	}
	return &Hasher{cost: cost, dummyHash: dummy}
}

// Hash returns the bcrypt hash of plaintext. bcrypt embeds a fresh random
// salt, so two calls with the same plaintext yield different strings.
func (h *Hasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plaintext matches the stored bcrypt hash. The
// comparison is constant-time inside bcrypt. Malformed stored hashes fail
// closed (false), never panic.
func (h *Hasher) Verify(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}

// DummyVerify burns one bcrypt comparison against a throwaway hash. Called
// on the account-not-found login path so response timing does not reveal
// whether an identifier is registered.
func (h *Hasher) DummyVerify(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(plaintext))
}
