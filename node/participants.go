package node

import (
	"context"
	"math/big"

	"github.com/tapyrus-federation/signerd/crypto"
)

// chooseParticipants implements "Master, on reaching >= T entries in
// shared_block_secrets" (spec §4.7): pick the first T signers in
// canonical order, announce them, then derive this node's own nonce
// share and — if the master is itself among the chosen participants —
// its partial signature, recording it directly without a network
// round-trip.
func (n *Node) chooseParticipants(ctx context.Context) {
	ids := make([]crypto.SignerID, 0, len(n.round.sharedBlockSecrets))
	for id := range n.round.sharedBlockSecrets {
		ids = append(ids, id)
	}
	crypto.SortSignerIDs(ids)
	if len(ids) > n.fed.Threshold {
		ids = ids[:n.fed.Threshold]
	}

	n.round.participants = make(map[crypto.SignerID]bool, len(ids))
	for _, id := range ids {
		n.round.participants[id] = true
	}
	n.round.haveParticipants = true

	n.broadcast(KindBlockParticipants, encodePayload(blockParticipantsPayload{
		BlockHash:    n.round.blockHash[:],
		Participants: signerIDsToWire(ids),
	}))

	if !n.round.participants[n.self] {
		return
	}

	keys, gamma, e, err := n.computeLocalNonceAndPartial(ids)
	if err != nil {
		n.logger.WithError(err).Warn("failed to derive local nonce share")
		return
	}
	n.round.keys = keys
	n.acceptPartialSignature(ctx, n.self, gamma, e)
}

// computeLocalNonceAndPartial implements the shared derivation both the
// master (for itself) and every other participant perform on learning
// the final participant set: the aggregated nonce point R, which side of
// the bidirectional VSS to use, this node's local nonce share k_i, the
// Schnorr challenge e, and this node's partial signature gamma_i (spec
// §4.7 "Master, on reaching >= T entries" / "Member, on
// BlockParticipants").
func (n *Node) computeLocalNonceAndPartial(participants []crypto.SignerID) (*blockSharedKeys, *big.Int, *big.Int, error) {
	r := crypto.Identity()
	for _, id := range participants {
		entry := n.round.sharedBlockSecrets[id]
		commit, err := entry.Pos.SecretCommitment()
		if err != nil {
			return nil, nil, nil, err
		}
		r = crypto.Add(r, commit)
	}

	usePositive := crypto.HasEvenY(r)
	ki := big.NewInt(0)
	for _, id := range participants {
		entry := n.round.sharedBlockSecrets[id]
		if usePositive {
			ki.Add(ki, entry.SharePosToSelf)
		} else {
			ki.Add(ki, entry.ShareNegToSelf)
		}
	}
	ki.Mod(ki, crypto.Order())

	e := crypto.ChallengeHash(crypto.ToBytes32(r.X), n.keys.GroupPublicKey, n.round.blockHash[:])
	gamma := crypto.LocalPartialSignature(ki, n.keys.PrivateShare, e)

	return &blockSharedKeys{UsePositive: usePositive, Ki: ki, R: r}, gamma, e, nil
}
