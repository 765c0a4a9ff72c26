package rpc

import "crypto/sha256"

// sigHash computes the deterministic digest of a candidate block's raw
// bytes: a double round of SHA-256 over the whole raw block, the same
// construction used by the wider Bitcoin-derived ecosystem this pack's
// examples draw from.
func sigHash(raw []byte) [32]byte {
	first := sha256.Sum256(raw)
	return sha256.Sum256(first[:])
}
