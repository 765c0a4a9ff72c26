package node

import (
	"github.com/tapyrus-federation/signerd/crypto"
	"github.com/tapyrus-federation/signerd/transport"
)

// onBlockParticipants implements "Member, on BlockParticipants" (spec
// §4.7): a non-participant becomes an observer for the rest of the round;
// a participant derives its nonce share and sends its partial signature
// to the master.
func (n *Node) onBlockParticipants(msg transport.Message) {
	member, ok := n.state.(MemberState)
	if !ok {
		return
	}
	expectedMaster := n.fed.Signers[member.MasterIndex]
	if msg.Sender != expectedMaster || n.round.haveParticipants {
		return
	}

	p, err := decodePayload[blockParticipantsPayload](msg.Payload)
	if err != nil {
		n.logger.WithError(err).Warn("malformed block participants")
		return
	}
	hash, err := blockHash32(p.BlockHash)
	if err != nil || hash != n.round.blockHash {
		n.logger.Debug("block participants for a different candidate, dropping")
		return
	}
	participants, err := signerIDsFromWire(p.Participants)
	if err != nil {
		n.logger.WithError(err).Warn("malformed participant list")
		return
	}

	n.round.participants = make(map[crypto.SignerID]bool, len(participants))
	for _, id := range participants {
		n.round.participants[id] = true
	}
	n.round.haveParticipants = true

	if !n.round.participants[n.self] {
		n.round.isObserver = true
		return
	}

	keys, gamma, e, err := n.computeLocalNonceAndPartial(participants)
	if err != nil {
		n.logger.WithError(err).Warn("failed to derive local nonce share")
		return
	}
	n.round.keys = keys

	payload := blockSigPayload{
		BlockHash: n.round.blockHash[:],
		Gamma:     scalarBytes(gamma),
		E:         scalarBytes(e),
	}
	n.send(expectedMaster, KindBlockSig, encodePayload(payload))
}
