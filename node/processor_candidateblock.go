package node

import (
	"context"

	"github.com/tapyrus-federation/signerd/rpc"
	"github.com/tapyrus-federation/signerd/transport"
)

// onCandidateBlock implements the member path for an inbound
// CandidateBlock (spec §4.7): verify the sender is this round's expected
// master, validate the block with the full node, then run the same
// block-VSS dealer step the master ran.
func (n *Node) onCandidateBlock(ctx context.Context, msg transport.Message) {
	member, ok := n.state.(MemberState)
	if !ok {
		return
	}
	expectedMaster := n.fed.Signers[member.MasterIndex]
	if msg.Sender != expectedMaster {
		n.logger.WithField("sender", msg.Sender).Warn("candidate block from unexpected master, ignoring")
		return
	}
	if n.round.haveCandidate {
		return
	}

	p, err := decodePayload[candidateBlockPayload](msg.Payload)
	if err != nil {
		n.logger.WithError(err).Warn("malformed candidate block")
		return
	}
	block := rpc.Block{Raw: p.Block}

	valid, err := n.rpcClient.TestProposedBlock(ctx, block)
	if err != nil {
		n.logger.WithError(err).Warn("testproposedblock failed; round will time out")
		return
	}
	if !valid {
		n.logger.Warn("candidate block rejected by full node")
		return
	}

	hash := block.Sighash()
	n.round.candidateBlock = &block
	n.round.blockHash = hash
	n.round.haveCandidate = true

	if err := n.dealBlockVSS(hash); err != nil {
		n.logger.WithError(err).Warn("block vss dealer step failed")
	}
}

func (n *Node) isMaster() bool {
	_, ok := n.state.(MasterState)
	return ok
}
