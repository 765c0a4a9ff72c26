// Package transport abstracts the pub/sub bus used for broadcast and
// unicast message delivery between signers (spec §4.2, §6).
package transport

import "github.com/tapyrus-federation/signerd/crypto"

// Message is the wire envelope carried by the transport. Encoding is
// implementation-defined but must be deterministic and round-trip stable;
// Kind and Payload are opaque to the transport itself.
type Message struct {
	Kind     string
	Sender   crypto.SignerID
	Receiver *crypto.SignerID // nil for broadcast
	Payload  []byte
}

// Transport is the narrow pub/sub contract the signer node depends on.
// Per-sender delivery is FIFO; there is no cross-sender ordering guarantee
// (spec §4.2).
type Transport interface {
	// Broadcast delivers msg to every signer, including the sender.
	Broadcast(msg Message) error

	// Send delivers msg to a single signer.
	Send(msg Message, to crypto.SignerID) error

	// Start begins delivering inbound messages addressed to self. Stop
	// ends delivery but does not close the returned channel. A second
	// channel surfaces transport-level errors; the node logs each error
	// received there and keeps running.
	Start(self crypto.SignerID) (inbox <-chan Message, errs <-chan error)

	// Stop tears down the delivery goroutine(s) started by Start.
	Stop()
}
