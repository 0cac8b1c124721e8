package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/kartyapp/authcore/internal/common"
)

// resetSecretBytes is the entropy of a reset secret. 32 random bytes give a
// 256-bit secret, far above the guessing budget of any reset-TTL window.
const resetSecretBytes = 32

// NewResetSecret returns a fresh random reset secret in its raw (mailable)
// hex form.
func NewResetSecret() (string, error) {
	return common.MakeRandHexString(resetSecretBytes)
}

// HashResetSecret returns the hex SHA-256 digest of a raw reset secret.
// Only the digest is ever persisted, so a store compromise does not expose
// usable reset links.
func HashResetSecret(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
