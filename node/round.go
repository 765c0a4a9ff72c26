package node

import (
	"math/big"

	"github.com/tapyrus-federation/signerd/crypto"
	"github.com/tapyrus-federation/signerd/roundctl"
	"github.com/tapyrus-federation/signerd/rpc"
)

// blockVSSEntry is one dealer's bidirectional block-nonce contribution:
// parallel VSS schemes over the dealer's per-block nonce k and its
// negation -k, plus the shares addressed to this node (spec §4.7).
type blockVSSEntry struct {
	Pos            crypto.VSSScheme
	Neg            crypto.VSSScheme
	SharePosToSelf *big.Int
	ShareNegToSelf *big.Int
}

// blockSharedKeys is this node's derived per-round nonce material, fixed
// once BlockParticipants is known: which side of the bidirectional VSS was
// chosen, this node's local nonce share k_i, and the aggregated nonce
// point R (spec §4.7).
type blockSharedKeys struct {
	UsePositive bool
	Ki          *big.Int
	R           crypto.Point
}

// partialSig is one participant's accepted contribution to the aggregated
// signature, recorded by the master.
type partialSig struct {
	Gamma *big.Int
	E     *big.Int
}

// roundState holds everything that is reset at the start of every round
// (spec §4.6, §4.7); it never survives a transition back to Joining/Master
// /Member for the next round.
type roundState struct {
	id          string
	masterIndex int

	candidateBlock *rpc.Block
	blockHash      [32]byte
	haveCandidate  bool

	sharedBlockSecrets map[crypto.SignerID]blockVSSEntry
	sentOwnBlockVSS    bool

	participants     map[crypto.SignerID]bool
	haveParticipants bool
	isObserver       bool

	keys *blockSharedKeys

	// partialSigs is populated only on the master.
	partialSigs map[crypto.SignerID]partialSig
}

func newRoundState(masterIndex int) *roundState {
	return &roundState{
		id:                 roundctl.NewRoundID(),
		masterIndex:        masterIndex,
		sharedBlockSecrets: make(map[crypto.SignerID]blockVSSEntry),
		partialSigs:        make(map[crypto.SignerID]partialSig),
	}
}
