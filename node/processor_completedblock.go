package node

import (
	"github.com/tapyrus-federation/signerd/crypto"
	"github.com/tapyrus-federation/signerd/transport"
)

// onCompletedBlock implements "Any node on CompletedBlock" (spec §4.7):
// verify the sender is this round's expected master and that the
// attached signature validates under the group public key, then
// transition to RoundComplete and immediately start the next round.
func (n *Node) onCompletedBlock(msg transport.Message) {
	if n.round == nil {
		return
	}
	expectedMaster := n.fed.Signers[n.round.masterIndex]
	if msg.Sender != expectedMaster {
		n.logger.WithField("sender", msg.Sender).Warn("completed block from unexpected master, ignoring")
		return
	}
	if _, already := n.state.(RoundCompleteState); already {
		return
	}

	p, err := decodePayload[completedBlockPayload](msg.Payload)
	if err != nil {
		n.logger.WithError(err).Warn("malformed completed block")
		return
	}

	rx, gamma, err := splitSignature(p.Block)
	if err != nil {
		n.logger.WithError(err).Warn("completed block missing signature")
		return
	}

	r, err := crypto.LiftX(crypto.FromBytes32(rx))
	if err != nil {
		n.logger.WithError(err).Warn("completed block signature has no valid nonce point")
		return
	}
	e := crypto.ChallengeHash(rx, n.keys.GroupPublicKey, n.round.blockHash[:])
	lhs := crypto.BaseMul(gamma)
	rhs := crypto.Add(r, crypto.Mul(n.keys.GroupPublicKey, e))
	if !crypto.Eq(lhs, rhs) {
		n.logger.Warn("completed block signature failed verification, ignoring")
		return
	}

	masterIndex := n.round.masterIndex
	next := (masterIndex + 1) % n.fed.N()
	n.state = RoundCompleteState{MasterIndex: masterIndex, NextMasterIndex: next}
	n.logger.WithField("master_index", masterIndex).Info("round complete (follower)")
	n.startRound(next)
}
