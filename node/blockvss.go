package node

import (
	"math/big"

	"github.com/tapyrus-federation/signerd/crypto"
)

// dealBlockVSS runs the block-nonce VSS dealer step every node performs
// for a candidate block, master and member alike (spec §4.7): sample a
// per-block nonce k, share both k and -k across the federation so the
// master can later pick whichever side makes the aggregated nonce point's
// y-coordinate even, and record this node's own contribution without a
// network round-trip.
//
// Shares differ per recipient, so unlike CandidateBlock and
// CompletedBlock this is realized as one unicast per peer rather than a
// single broadcast payload, despite spec §4.7 phrasing it as a broadcast.
func (n *Node) dealBlockVSS(blockHash [32]byte) error {
	k, err := crypto.RandomScalar()
	if err != nil {
		return err
	}
	negK := new(big.Int).Neg(k)
	negK.Mod(negK, crypto.Order())

	posScheme, posShares, err := crypto.ShareAtIndices(k, n.fed.Threshold, n.fed.N())
	if err != nil {
		return err
	}
	negScheme, negShares, err := crypto.ShareAtIndices(negK, n.fed.Threshold, n.fed.N())
	if err != nil {
		return err
	}

	selfJ := n.fed.SelfIndex
	n.round.sharedBlockSecrets[n.self] = blockVSSEntry{
		Pos:            posScheme,
		Neg:            negScheme,
		SharePosToSelf: posShares[selfJ].Value,
		ShareNegToSelf: negShares[selfJ].Value,
	}
	n.round.sentOwnBlockVSS = true

	for j, id := range n.fed.Signers {
		if id == n.self {
			continue
		}
		payload := blockVSSPayload{
			BlockHash: blockHash[:],
			Pos:       toWireVSS(posScheme),
			SharePos:  scalarBytes(posShares[j].Value),
			Neg:       toWireVSS(negScheme),
			ShareNeg:  scalarBytes(negShares[j].Value),
		}
		n.send(id, KindBlockVSS, encodePayload(payload))
	}
	return nil
}
