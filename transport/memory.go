package transport

import (
	"sync"

	"github.com/tapyrus-federation/signerd/crypto"
	"github.com/tapyrus-federation/signerd/log"
)

var logger = log.For("transport")

// bus is the shared, in-process hub that in-memory Memory transports
// register with; it fans out Broadcast/Send calls to every registered
// peer's inbox, preserving per-sender FIFO order via one buffered channel
// per peer.
type bus struct {
	mu    sync.Mutex
	peers map[crypto.SignerID]chan Message
}

func newBus() *bus {
	return &bus{peers: make(map[crypto.SignerID]chan Message)}
}

// Memory is an in-process Transport implementation used by tests and the
// end-to-end scenarios in spec §8. Every Memory sharing the same *bus sees
// each other's broadcasts and unicasts.
type Memory struct {
	bus  *bus
	self crypto.SignerID

	inbox chan Message
	errs  chan error
	done  chan struct{}
}

// MemoryNetwork is a fresh, isolated set of peers sharing a single
// in-process bus; call NewPeer for each signer before any Start call.
type MemoryNetwork struct {
	bus *bus
}

// NewMemoryNetwork constructs an empty in-memory network.
func NewMemoryNetwork() *MemoryNetwork {
	return &MemoryNetwork{bus: newBus()}
}

// NewPeer registers and returns a Transport for the given signer id.
func (n *MemoryNetwork) NewPeer(id crypto.SignerID) *Memory {
	ch := make(chan Message, 256)
	n.bus.mu.Lock()
	n.bus.peers[id] = ch
	n.bus.mu.Unlock()
	return &Memory{bus: n.bus, self: id, inbox: ch}
}

// Start implements Transport.
func (m *Memory) Start(self crypto.SignerID) (<-chan Message, <-chan error) {
	m.errs = make(chan error, 1)
	m.done = make(chan struct{})
	return m.inbox, m.errs
}

// Stop implements Transport.
func (m *Memory) Stop() {
	if m.done != nil {
		select {
		case <-m.done:
		default:
			close(m.done)
		}
	}
}

// Broadcast implements Transport.
func (m *Memory) Broadcast(msg Message) error {
	m.bus.mu.Lock()
	defer m.bus.mu.Unlock()
	for _, ch := range m.bus.peers {
		deliver(ch, msg)
	}
	return nil
}

// Send implements Transport.
func (m *Memory) Send(msg Message, to crypto.SignerID) error {
	m.bus.mu.Lock()
	ch, ok := m.bus.peers[to]
	m.bus.mu.Unlock()
	if !ok {
		logger.WithField("to", to).Warn("send to unknown peer dropped")
		return nil
	}
	deliver(ch, msg)
	return nil
}

func deliver(ch chan Message, msg Message) {
	select {
	case ch <- msg:
	default:
		logger.Warn("peer inbox full, dropping message")
	}
}
