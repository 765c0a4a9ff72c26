// Package signererr defines the typed error kinds produced across the
// signer node and how the event loop should react to each.
package signererr

import "fmt"

// Kind distinguishes the error classes from the error handling design:
// fatal-at-startup, round-local, silently-tolerated, or fatal-to-the-process.
type Kind int

const (
	// Config marks malformed configuration: bad keys, threshold > N,
	// a private key that does not belong to the federation. Fatal at
	// startup.
	Config Kind = iota
	// Rpc marks a network error, timeout, or unexpected RPC response.
	// Round-local: the master abandons the round and falls back to the
	// timer.
	Rpc
	// BlockValidation marks a rejected candidate block (testproposedblock
	// returned false). The member refuses to participate and waits for
	// the timeout.
	BlockValidation
	// VssVerification marks a received VSS share inconsistent with its
	// commitment. The message is dropped; the node does not crash.
	VssVerification
	// PartialSignature marks a BlockSig that fails verification against
	// the commitments. The partial is dropped.
	PartialSignature
	// Transport marks any error surfaced on the transport's error
	// channel. Fatal.
	Transport
	// Dkg marks a share verification failure during DKG. Fatal.
	Dkg
)

func (k Kind) String() string {
	switch k {
	case Config:
		return "ConfigError"
	case Rpc:
		return "RpcError"
	case BlockValidation:
		return "BlockValidationError"
	case VssVerification:
		return "VssVerificationError"
	case PartialSignature:
		return "PartialSignatureError"
	case Transport:
		return "TransportError"
	case Dkg:
		return "DkgError"
	default:
		return "UnknownError"
	}
}

// Error is the concrete error type carrying a Kind plus context.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Op)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fatal reports whether an error of this kind should stop the node.
func (k Kind) Fatal() bool {
	switch k {
	case Config, Transport, Dkg:
		return true
	default:
		return false
	}
}

// New constructs an Error of the given kind.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}
