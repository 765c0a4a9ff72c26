package node

import (
	"fmt"
	"math/big"

	"github.com/tapyrus-federation/signerd/crypto"
	"github.com/tapyrus-federation/signerd/rpc"
)

// attachSignature appends the aggregated Schnorr signature to a block's
// raw bytes. The wire format a full node expects for an in-place proof
// field is outside this node's concerns (spec's RPC surface treats Block
// as opaque); appending (Rx, gamma) is this module's placeholder framing.
func attachSignature(block rpc.Block, sig crypto.Signature) rpc.Block {
	gamma := crypto.ToBytes32(sig.Gamma)

	out := make([]byte, len(block.Raw)+len(sig.Rx)+len(gamma))
	n := copy(out, block.Raw)
	n += copy(out[n:], sig.Rx[:])
	copy(out[n:], gamma[:])

	return rpc.Block{Raw: out}
}

// splitSignature reverses attachSignature, recovering (Rx, gamma) from a
// signed block's trailing bytes.
func splitSignature(raw []byte) (rx [32]byte, gamma *big.Int, err error) {
	const sigLen = 32 + 32
	if len(raw) < sigLen {
		return rx, nil, fmt.Errorf("block too short to carry a signature")
	}
	copy(rx[:], raw[len(raw)-sigLen:len(raw)-32])
	gamma = new(big.Int).SetBytes(raw[len(raw)-32:])
	return rx, gamma, nil
}
