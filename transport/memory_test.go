package transport

import (
	"testing"
	"time"

	"github.com/tapyrus-federation/signerd/crypto"
)

func peerID(b byte) crypto.SignerID {
	var id crypto.SignerID
	id[0] = 0x02
	id[32] = b
	return id
}

func recv(t *testing.T, ch <-chan Message) Message {
	t.Helper()
	select {
	case m := <-ch:
		return m
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a message")
		return Message{}
	}
}

func recvNone(t *testing.T, ch <-chan Message) {
	t.Helper()
	select {
	case m := <-ch:
		t.Fatalf("expected no message, got %+v", m)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryBroadcastReachesEveryPeerIncludingSender(t *testing.T) {
	net := NewMemoryNetwork()
	a := net.NewPeer(peerID(1))
	b := net.NewPeer(peerID(2))

	aInbox, _ := a.Start(peerID(1))
	bInbox, _ := b.Start(peerID(2))

	if err := a.Broadcast(Message{Kind: "hello", Sender: peerID(1)}); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}

	for _, inbox := range []<-chan Message{aInbox, bInbox} {
		got := recv(t, inbox)
		if got.Kind != "hello" {
			t.Fatalf("got kind %q, want hello", got.Kind)
		}
	}
}

func TestMemorySendReachesOnlyTheRecipient(t *testing.T) {
	net := NewMemoryNetwork()
	a := net.NewPeer(peerID(1))
	b := net.NewPeer(peerID(2))
	c := net.NewPeer(peerID(3))

	aInbox, _ := a.Start(peerID(1))
	bInbox, _ := b.Start(peerID(2))
	cInbox, _ := c.Start(peerID(3))

	to := peerID(2)
	if err := a.Send(Message{Kind: "direct", Sender: peerID(1), Receiver: &to}, to); err != nil {
		t.Fatalf("Send: %v", err)
	}

	got := recv(t, bInbox)
	if got.Kind != "direct" {
		t.Fatalf("got kind %q, want direct", got.Kind)
	}
	recvNone(t, aInbox)
	recvNone(t, cInbox)
}

func TestMemorySendToUnknownPeerIsDroppedNotFatal(t *testing.T) {
	net := NewMemoryNetwork()
	a := net.NewPeer(peerID(1))
	a.Start(peerID(1))

	unknown := peerID(99)
	if err := a.Send(Message{Kind: "x", Sender: peerID(1)}, unknown); err != nil {
		t.Fatalf("Send to unknown peer should not error, got %v", err)
	}
}

func TestMemoryPerSenderFIFOOrder(t *testing.T) {
	net := NewMemoryNetwork()
	a := net.NewPeer(peerID(1))
	b := net.NewPeer(peerID(2))

	a.Start(peerID(1))
	bInbox, _ := b.Start(peerID(2))

	for i := 0; i < 5; i++ {
		to := peerID(2)
		kind := string(rune('a' + i))
		if err := a.Send(Message{Kind: kind, Sender: peerID(1), Receiver: &to}, to); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}

	for i := 0; i < 5; i++ {
		got := recv(t, bInbox)
		want := string(rune('a' + i))
		if got.Kind != want {
			t.Fatalf("message %d: got kind %q, want %q", i, got.Kind, want)
		}
	}
}
