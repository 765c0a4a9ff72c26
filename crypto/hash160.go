package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // the standard Bitcoin-style address digest
)

// Hash160 computes RIPEMD160(SHA256(data)), the standard digest used to
// derive a payout address from a compressed public key.
func Hash160(data []byte) [20]byte {
	sha := sha256.Sum256(data)
	h := ripemd160.New()
	h.Write(sha[:])

	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}
