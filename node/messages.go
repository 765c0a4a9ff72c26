package node

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/tapyrus-federation/signerd/crypto"
)

// Message kinds, the authoritative list from spec §4.5 and §4.7.
const (
	KindEphemeralPubKey   = "EphemeralPubKey"
	KindNodeVSS           = "NodeVSS"
	KindCandidateBlock    = "CandidateBlock"
	KindBlockVSS          = "BlockVSS"
	KindBlockParticipants = "BlockParticipants"
	KindBlockSig          = "BlockSig"
	KindCompletedBlock    = "CompletedBlock"
	KindRoundFailure      = "RoundFailure"
)

// wireVSS is the JSON-serializable form of a crypto.VSSScheme: each
// commitment as a 33-byte compressed point.
type wireVSS struct {
	Commitments [][]byte `json:"commitments"`
}

func toWireVSS(v crypto.VSSScheme) wireVSS {
	out := wireVSS{Commitments: make([][]byte, len(v.Commitments))}
	for i, c := range v.Commitments {
		out.Commitments[i] = c.CompressedBytes()
	}
	return out
}

func (w wireVSS) toScheme() (crypto.VSSScheme, error) {
	commitments := make([]crypto.Point, len(w.Commitments))
	for i, b := range w.Commitments {
		p, err := crypto.PointFromCompressed(b)
		if err != nil {
			return crypto.VSSScheme{}, fmt.Errorf("commitment %d: %w", i, err)
		}
		commitments[i] = p
	}
	return crypto.VSSScheme{Commitments: commitments}, nil
}

// ephemeralPubKeyPayload announces a one-time-per-process ECDH public key,
// broadcast by every signer before dealing DKG shares so that each
// NodeVSS share can be encrypted to its recipient.
type ephemeralPubKeyPayload struct {
	PubKey []byte `json:"pub_key"`
}

// nodeVSSPayload carries a DKG dealer's share to one recipient (spec §4.5
// step 3), unicast to every signer including the dealer itself. Share is
// sealed under a symmetric key derived from an ECDH exchange between the
// dealer's and recipient's ephemeral keys, so a share never crosses the
// transport in the clear.
type nodeVSSPayload struct {
	VSS   wireVSS `json:"vss"`
	Share []byte  `json:"share"`
}

// candidateBlockPayload carries the master's proposed block (spec §4.7).
type candidateBlockPayload struct {
	Block []byte `json:"block"`
}

// blockVSSPayload carries the bidirectional (positive/negative) nonce VSS
// a dealer runs for a candidate block (spec §4.7).
type blockVSSPayload struct {
	BlockHash []byte  `json:"block_hash"`
	Pos       wireVSS `json:"pos"`
	SharePos  []byte  `json:"share_pos"`
	Neg       wireVSS `json:"neg"`
	ShareNeg  []byte  `json:"share_neg"`
}

// blockParticipantsPayload announces the T signers chosen to sign (spec
// §4.7).
type blockParticipantsPayload struct {
	BlockHash    []byte   `json:"block_hash"`
	Participants [][]byte `json:"participants"`
}

// blockSigPayload carries one participant's partial signature to the
// master (spec §4.7).
type blockSigPayload struct {
	BlockHash []byte `json:"block_hash"`
	Gamma     []byte `json:"gamma"`
	E         []byte `json:"e"`
}

// completedBlockPayload carries the final, fully signed block (spec §4.7).
type completedBlockPayload struct {
	Block []byte `json:"block"`
}

func encodePayload[T any](v T) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		// every payload type here is built from fixed-size byte slices and
		// big.Int byte encodings; marshaling cannot fail.
		panic(fmt.Sprintf("node: marshal payload: %v", err))
	}
	return b
}

func decodePayload[T any](b []byte) (T, error) {
	var v T
	err := json.Unmarshal(b, &v)
	return v, err
}

func scalarBytes(x *big.Int) []byte {
	return x.Bytes()
}

func scalarFromBytes(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

func signerIDsToWire(ids []crypto.SignerID) [][]byte {
	out := make([][]byte, len(ids))
	for i, id := range ids {
		out[i] = id.Bytes()
	}
	return out
}

func signerIDsFromWire(raw [][]byte) ([]crypto.SignerID, error) {
	out := make([]crypto.SignerID, len(raw))
	for i, b := range raw {
		id, err := crypto.ParseSignerID(b)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

func blockHash32(b []byte) ([32]byte, error) {
	var h [32]byte
	if len(b) != 32 {
		return h, fmt.Errorf("block hash must be 32 bytes, got %d", len(b))
	}
	copy(h[:], b)
	return h, nil
}
