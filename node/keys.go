package node

import (
	"math/big"

	"github.com/tapyrus-federation/signerd/crypto"
)

// SharedKeys is the result of the one-time DKG procedure (spec §4.5):
// this node's aggregated private share x_i, the federation's aggregated
// public key Y, and every dealer's Feldman commitment vector — kept so
// any participant's public share X_i can be recomputed later for partial
// signature verification (spec §4.7 "Master, on BlockSig").
type SharedKeys struct {
	PrivateShare      *big.Int
	GroupPublicKey    crypto.Point
	DealerCommitments map[crypto.SignerID]crypto.VSSScheme
}

// PublicShareAt recomputes the aggregated public share X_i for the
// participant at the given 1-based evaluation point, by summing every
// dealer's commitment polynomial evaluated at that point.
func (k *SharedKeys) PublicShareAt(evalPoint int) crypto.Point {
	sum := crypto.Identity()
	for _, vss := range k.DealerCommitments {
		sum = crypto.Add(sum, vss.CommitmentAt(evalPoint))
	}
	return sum
}
