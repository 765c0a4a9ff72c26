package crypto

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcec"
	"golang.org/x/exp/slices"
)

// SignerID identifies a signer by its compressed public key. It is
// comparable and can be used directly as a Go map key; the federation's
// signer list is always ordered by its byte serialization (spec §3).
type SignerID [33]byte

// SignerIDFromPublicKey derives a SignerID from a public key.
func SignerIDFromPublicKey(pub *btcec.PublicKey) SignerID {
	var id SignerID
	copy(id[:], pub.SerializeCompressed())
	return id
}

// ParseSignerID parses a 33-byte compressed public key.
func ParseSignerID(b []byte) (SignerID, error) {
	var id SignerID
	if len(b) != 33 {
		return id, fmt.Errorf("signer id must be 33 bytes, got %d", len(b))
	}
	copy(id[:], b)
	return id, nil
}

// Bytes returns the underlying compressed public key bytes.
func (id SignerID) Bytes() []byte {
	return id[:]
}

func (id SignerID) String() string {
	return fmt.Sprintf("%x", id[:])
}

// Less implements the canonical total order over SignerIDs: ascending
// byte-lexicographic order of the compressed public key.
func (id SignerID) Less(other SignerID) bool {
	return bytes.Compare(id[:], other[:]) < 0
}

// PublicKey parses the SignerID back into a curve point.
func (id SignerID) PublicKey() (*btcec.PublicKey, error) {
	return btcec.ParsePubKey(id[:], btcec.S256())
}

// SortSignerIDs sorts ids in place in canonical ascending order. It is the
// Go realization of the original node's NodeParameters::sort_publickey
// helper (original_source/src/signer_node/node_parameters.rs).
func SortSignerIDs(ids []SignerID) {
	slices.SortFunc(ids, func(a, b SignerID) int {
		return bytes.Compare(a[:], b[:])
	})
}
