package node

import (
	"context"
	"math/big"

	"github.com/tapyrus-federation/signerd/crypto"
	"github.com/tapyrus-federation/signerd/transport"
)

// onBlockSig implements "Master, on BlockSig" (spec §4.7): decode and
// forward to acceptPartialSignature, which verifies, records, and — once
// T partials have been accepted — aggregates, submits, and completes the
// round.
func (n *Node) onBlockSig(ctx context.Context, msg transport.Message) {
	if !n.isMaster() {
		return
	}
	p, err := decodePayload[blockSigPayload](msg.Payload)
	if err != nil {
		n.logger.WithError(err).Warn("malformed block sig")
		return
	}
	hash, err := blockHash32(p.BlockHash)
	if err != nil || hash != n.round.blockHash {
		n.logger.Debug("block sig for a different candidate, dropping")
		return
	}
	n.acceptPartialSignature(ctx, msg.Sender, scalarFromBytes(p.Gamma), scalarFromBytes(p.E))
}

// acceptPartialSignature verifies and records one participant's partial
// signature (spec §4.7 "Master, on BlockSig"), aggregating and
// completing the round once the threshold is reached.
func (n *Node) acceptPartialSignature(ctx context.Context, sender crypto.SignerID, gamma, e *big.Int) {
	if !n.round.participants[sender] {
		n.logger.WithField("sender", sender).Warn("block sig from non-participant, dropping")
		return
	}
	if _, already := n.round.partialSigs[sender]; already {
		return
	}
	if n.round.keys == nil {
		n.logger.Debug("block sig arrived before local nonce derivation, dropping")
		return
	}

	senderPoint := n.fed.IndexOf(sender) + 1
	publicShare := n.keys.PublicShareAt(senderPoint)
	expectedNonce := n.expectedNonceFor(senderPoint)

	if !crypto.VerifyPartialSignature(gamma, e, publicShare, expectedNonce) {
		n.logger.WithField("sender", sender).Warn("partial signature failed verification, dropping")
		return
	}

	n.round.partialSigs[sender] = partialSig{Gamma: gamma, E: e}

	if len(n.round.partialSigs) < n.fed.Threshold {
		return
	}
	n.finalizeRound(ctx)
}

// expectedNonceFor computes the expected local nonce point K_j for the
// participant at senderPoint, the sum across all participants' chosen-
// side VSS commitments evaluated at that index.
func (n *Node) expectedNonceFor(senderPoint int) crypto.Point {
	sum := crypto.Identity()
	for id := range n.round.participants {
		entry := n.round.sharedBlockSecrets[id]
		scheme := entry.Pos
		if !n.round.keys.UsePositive {
			scheme = entry.Neg
		}
		sum = crypto.Add(sum, scheme.CommitmentAt(senderPoint))
	}
	return sum
}

func (n *Node) finalizeRound(ctx context.Context) {
	gammas := make(map[int]*big.Int, len(n.round.partialSigs))
	for sender, ps := range n.round.partialSigs {
		gammas[n.fed.IndexOf(sender)+1] = ps.Gamma
	}
	sig := crypto.AggregateSignature(n.round.keys.R, gammas)

	signed := attachSignature(*n.round.candidateBlock, sig)

	if err := n.rpcClient.SubmitBlock(ctx, signed); err != nil {
		n.logger.WithError(err).Warn("submitblock failed; round will time out")
		return
	}

	n.broadcast(KindCompletedBlock, encodePayload(completedBlockPayload{Block: signed.Raw}))

	masterIndex := n.round.masterIndex
	next := (masterIndex + 1) % n.fed.N()
	n.state = RoundCompleteState{MasterIndex: masterIndex, NextMasterIndex: next}
	n.logger.WithField("master_index", masterIndex).Info("round complete")
	n.startRound(next)
}
