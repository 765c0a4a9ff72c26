package node

import (
	"context"

	"github.com/tapyrus-federation/signerd/crypto"
	"github.com/tapyrus-federation/signerd/transport"
)

// onBlockVSS implements "Any node on inbound BlockVSS" (spec §4.7):
// verify both the positive and negative shares against their commitments
// at this node's index, then record the dealer's contribution. If this
// node is master and has now collected at least T contributions, it
// proceeds to choose the round's participants.
func (n *Node) onBlockVSS(ctx context.Context, msg transport.Message) {
	if n.round == nil || !n.round.haveCandidate {
		n.logger.Debug("block vss received before a candidate is known, dropping")
		return
	}

	p, err := decodePayload[blockVSSPayload](msg.Payload)
	if err != nil {
		n.logger.WithError(err).Warn("malformed block vss")
		return
	}
	hash, err := blockHash32(p.BlockHash)
	if err != nil || hash != n.round.blockHash {
		n.logger.Debug("block vss for a different candidate, dropping")
		return
	}

	posScheme, err := p.Pos.toScheme()
	if err != nil {
		n.logger.WithError(err).Warn("malformed positive vss commitment")
		return
	}
	negScheme, err := p.Neg.toScheme()
	if err != nil {
		n.logger.WithError(err).Warn("malformed negative vss commitment")
		return
	}
	sharePos := scalarFromBytes(p.SharePos)
	shareNeg := scalarFromBytes(p.ShareNeg)

	selfPoint := n.fed.SelfIndex + 1
	if !crypto.VerifyShare(posScheme, selfPoint, sharePos) || !crypto.VerifyShare(negScheme, selfPoint, shareNeg) {
		n.logger.WithField("sender", msg.Sender).Warn("block vss share failed verification, dropping")
		return
	}

	n.round.sharedBlockSecrets[msg.Sender] = blockVSSEntry{
		Pos:            posScheme,
		Neg:            negScheme,
		SharePosToSelf: sharePos,
		ShareNegToSelf: shareNeg,
	}

	if n.isMaster() && !n.round.haveParticipants && len(n.round.sharedBlockSecrets) >= n.fed.Threshold {
		n.chooseParticipants(ctx)
	}
}
