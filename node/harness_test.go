package node

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcec"
	"golang.org/x/exp/slices"

	"github.com/tapyrus-federation/signerd/crypto"
	"github.com/tapyrus-federation/signerd/federation"
	"github.com/tapyrus-federation/signerd/rpc"
	"github.com/tapyrus-federation/signerd/transport"
)

// testSigner is one fixture signer's keypair, used to build deterministic
// multi-node scenarios mirroring spec §8's end-to-end test table.
type testSigner struct {
	priv *btcec.PrivateKey
	id   crypto.SignerID
}

// makeTestSigners returns n signers in canonical (sorted SignerID) order, so
// a signer's slice index matches its federation index — the K0, K1, K2
// fixture naming spec §8 uses.
func makeTestSigners(t *testing.T, n int) []testSigner {
	t.Helper()
	signers := make([]testSigner, n)
	for i := range signers {
		s, err := crypto.RandomScalar()
		if err != nil {
			t.Fatalf("RandomScalar: %v", err)
		}
		b := crypto.ToBytes32(s)
		priv, pub := btcec.PrivKeyFromBytes(btcec.S256(), b[:])
		signers[i] = testSigner{priv: priv, id: crypto.SignerIDFromPublicKey(pub)}
	}
	slices.SortFunc(signers, func(a, b testSigner) int {
		return bytes.Compare(a.id[:], b.id[:])
	})
	return signers
}

func buildRegistryFor(t *testing.T, signers []testSigner, threshold, selfIndex int) *federation.Registry {
	t.Helper()
	ids := make([]crypto.SignerID, len(signers))
	for i, s := range signers {
		ids[i] = s.id
	}
	fed := federation.Federation{
		ActivationHeight: 0,
		Signers:          ids,
		Threshold:        threshold,
		SelfIndex:        selfIndex,
	}
	r, err := federation.NewRegistry([]federation.Federation{fed})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

// harness wires up N nodes sharing an in-memory transport network, one
// rpc.Fake per node, for the end-to-end scenarios in spec §8.
type harness struct {
	nodes []*Node
	fakes []*rpc.Fake
	net   *transport.MemoryNetwork

	ctx    context.Context
	cancel context.CancelFunc

	wg   sync.WaitGroup
	errs []error
	mu   sync.Mutex
}

// transportHook lets a scenario wrap a single node's transport, e.g. to
// corrupt or delay specific message kinds in flight.
type transportHook func(transport.Transport) transport.Transport

func newHarness(t *testing.T, n, threshold int, roundDuration time.Duration, hooks map[int]transportHook) *harness {
	t.Helper()
	signers := makeTestSigners(t, n)
	net := transport.NewMemoryNetwork()

	h := &harness{
		nodes: make([]*Node, n),
		fakes: make([]*rpc.Fake, n),
		net:   net,
		errs:  make([]error, n),
	}
	h.ctx, h.cancel = context.WithCancel(context.Background())

	for i, s := range signers {
		registry := buildRegistryFor(t, signers, threshold, i)
		fake := rpc.NewFake()
		h.fakes[i] = fake

		var tr transport.Transport = net.NewPeer(s.id)
		if hook, ok := hooks[i]; ok {
			tr = hook(tr)
		}

		h.nodes[i] = New(Config{
			Self:          s.id,
			PrivateKey:    s.priv,
			Registry:      registry,
			Transport:     tr,
			RPC:           fake,
			RoundDuration: roundDuration,
			SkipIBD:       true,
		})
	}
	return h
}

func (h *harness) run() {
	for i, n := range h.nodes {
		h.wg.Add(1)
		go func(i int, n *Node) {
			defer h.wg.Done()
			err := n.Run(h.ctx)
			h.mu.Lock()
			h.errs[i] = err
			h.mu.Unlock()
		}(i, n)
	}
}

func (h *harness) errFor(i int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.errs[i]
}

// stop cancels every node's context and waits for their Run loops to
// return, so it's safe to read node-internal state afterward without a
// race against the (deliberately lock-free, single-goroutine) event loop.
func (h *harness) stop(t *testing.T) {
	t.Helper()
	h.cancel()
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("nodes did not stop after context cancellation")
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

// slowTestProposedBlock wraps a Client and delays its TestProposedBlock
// response, used to make one member arrive at BlockVSS deterministically
// later than another in the participant-selection race.
type slowTestProposedBlock struct {
	rpc.Client
	delay time.Duration
}

func (s *slowTestProposedBlock) TestProposedBlock(ctx context.Context, block rpc.Block) (bool, error) {
	time.Sleep(s.delay)
	return s.Client.TestProposedBlock(ctx, block)
}

// corruptingSend wraps a Transport and mutates the payload of every sent
// message matching kind, simulating a Byzantine or corrupted sender.
type corruptingSend struct {
	transport.Transport
	kind    string
	corrupt func(payload []byte) []byte
}

func (c *corruptingSend) Send(msg transport.Message, to crypto.SignerID) error {
	if msg.Kind == c.kind {
		msg.Payload = c.corrupt(msg.Payload)
	}
	return c.Transport.Send(msg, to)
}

// recordingTransport wraps a Transport and keeps a copy of every outbound
// payload by kind, so a test can observe what a node sent even after its
// internal round state has moved on to the next round.
type recordingTransport struct {
	transport.Transport
	mu      sync.Mutex
	records map[string][][]byte
}

func newRecordingTransport(tr transport.Transport) *recordingTransport {
	return &recordingTransport{Transport: tr, records: make(map[string][][]byte)}
}

func (r *recordingTransport) record(kind string, payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[kind] = append(r.records[kind], payload)
}

func (r *recordingTransport) Broadcast(msg transport.Message) error {
	r.record(msg.Kind, msg.Payload)
	return r.Transport.Broadcast(msg)
}

func (r *recordingTransport) Send(msg transport.Message, to crypto.SignerID) error {
	r.record(msg.Kind, msg.Payload)
	return r.Transport.Send(msg, to)
}

func (r *recordingTransport) get(kind string) [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]byte, len(r.records[kind]))
	copy(out, r.records[kind])
	return out
}

// teeingInbox wraps a Transport's inbound channel, counting messages of a
// given kind as they arrive, without otherwise altering delivery. Used to
// observe that a message was received even after the receiver's internal
// round state has moved on.
type teeingInbox struct {
	transport.Transport
	kind string

	mu    sync.Mutex
	count int
}

func (t *teeingInbox) Start(self crypto.SignerID) (<-chan transport.Message, <-chan error) {
	inbox, errs := t.Transport.Start(self)
	out := make(chan transport.Message, 256)
	go func() {
		for msg := range inbox {
			if msg.Kind == t.kind {
				t.mu.Lock()
				t.count++
				t.mu.Unlock()
			}
			out <- msg
		}
	}()
	return out, errs
}

func (t *teeingInbox) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}
