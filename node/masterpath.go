package node

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/tapyrus-federation/signerd/crypto"
)

// runMasterPath drives the master's half of a round (spec §4.7): rate
// limit, fetch a candidate block from the full node, broadcast it, and
// run the block-VSS dealer step for it. Mirrors the original node's
// synchronous master branch, including its blocking rate-limit sleep —
// the single-threaded loop is unavailable to other work for that
// duration by design, bounded by the operator-configured round_duration.
func (n *Node) runMasterPath() {
	if n.roundDuration > 0 {
		time.Sleep(n.roundDuration)
	}

	ctx := context.Background()
	block, err := n.rpcClient.GetNewBlock(ctx, n.payoutAddress())
	if err != nil {
		n.logger.WithError(err).Warn("getnewblock failed; round will time out")
		return
	}

	hash := block.Sighash()
	n.round.candidateBlock = &block
	n.round.blockHash = hash
	n.round.haveCandidate = true

	n.broadcast(KindCandidateBlock, encodePayload(candidateBlockPayload{Block: block.Raw}))

	if err := n.dealBlockVSS(hash); err != nil {
		n.logger.WithError(err).Warn("block vss dealer step failed")
	}
}

// payoutAddress derives a Bitcoin-style hash160 identifier for getnewblock
// from the federation's aggregated public key; the exact address encoding
// (bech32/base58, network prefix) a full node expects is outside this
// node's concerns, so this passes the raw digest hex-encoded.
func (n *Node) payoutAddress() string {
	h := crypto.Hash160(n.keys.GroupPublicKey.CompressedBytes())
	return hex.EncodeToString(h[:])
}
