package crypto

import (
	"crypto/sha256"
	"math/big"
)

// taggedHash implements the BIP-340 style tagged hash construction used
// throughout the teacher's ciphersuite: SHA256(SHA256(tag) || SHA256(tag) || msg).
func taggedHash(tag string, msg ...[]byte) [32]byte {
	hashedTag := sha256.Sum256([]byte(tag))
	h := sha256.New()
	h.Write(hashedTag[:])
	h.Write(hashedTag[:])
	for _, m := range msg {
		h.Write(m)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// HashToScalar reduces a tagged hash of msg modulo the group order.
func HashToScalar(tag string, msg ...[]byte) *big.Int {
	h := taggedHash(tag, msg...)
	s := new(big.Int).SetBytes(h[:])
	return s.Mod(s, Order())
}

// ChallengeHash computes the per-block Schnorr challenge
// e = H(R.x || Y.x || sighash) under its own tag, so it never collides
// with HashToScalar used under a different tag. Y enters as its
// x-coordinate only.
func ChallengeHash(rx [32]byte, y Point, sighash []byte) *big.Int {
	yb := ToBytes32(y.X)
	return HashToScalar("tapyrus-signer/challenge", rx[:], yb[:], sighash)
}

// SigHash256 returns the plain (untagged) SHA-256 digest of data. Block
// sighashes do not use it: rpc.Block.Sighash computes a double SHA-256.
func SigHash256(data []byte) [32]byte {
	return sha256.Sum256(data)
}
