package node

import (
	"testing"
	"time"

	"github.com/tapyrus-federation/signerd/transport"
)

// Scenario 1 (spec §8.1): happy path, N=3 T=2, node 0 initial master.
//
// round_duration is kept short but nonzero so that after round 1
// completes and every node advances to round 2's assignment, there is a
// stable window (round 2's master is still rate-limit-sleeping) in which
// round 1's observable effects can be asserted before the next round's
// cascade overwrites per-round state.
func TestE2EHappyPath(t *testing.T) {
	const n, threshold = 3, 2
	const roundDuration = 2 * time.Second

	recorder := newRecordingTransport(nil) // Transport field patched in below
	h := newHarness(t, n, threshold, roundDuration, map[int]transportHook{
		0: func(tr transport.Transport) transport.Transport {
			recorder.Transport = tr
			return recorder
		},
	})

	// Slow node 2's candidate-block validation so node 1 always wins the
	// second participant slot, pinning participants to {K0, K1}.
	h.nodes[2].rpcClient = &slowTestProposedBlock{Client: h.fakes[2], delay: 500 * time.Millisecond}

	h.run()

	waitFor(t, 40*time.Second, func() bool {
		return len(h.fakes[0].Submitted()) == 1
	})

	participantBroadcasts := recorder.get(KindBlockParticipants)
	if len(participantBroadcasts) == 0 {
		t.Fatal("master never broadcast BlockParticipants")
	}
	p, err := decodePayload[blockParticipantsPayload](participantBroadcasts[0])
	if err != nil {
		t.Fatalf("decode BlockParticipants: %v", err)
	}
	participants, err := signerIDsFromWire(p.Participants)
	if err != nil {
		t.Fatalf("decode participant ids: %v", err)
	}
	if len(participants) != threshold {
		t.Fatalf("got %d participants, want %d", len(participants), threshold)
	}
	wantK0, wantK1 := h.nodes[0].self, h.nodes[1].self
	if !((participants[0] == wantK0 && participants[1] == wantK1) ||
		(participants[0] == wantK1 && participants[1] == wantK0)) {
		t.Fatalf("participants = %v, want {K0, K1}", participants)
	}

	// Round 1's completion immediately advances every node to round 2's
	// assignment (master index 1); round 2's master rate-limits for
	// roundDuration before fetching its own candidate, giving a window to
	// check this without racing a second submission.
	waitFor(t, 2*time.Second, func() bool {
		_, node0Member := h.nodes[0].state.(MemberState)
		_, node1Master := h.nodes[1].state.(MasterState)
		_, node2Member := h.nodes[2].state.(MemberState)
		return node0Member && node1Master && node2Member
	})

	member0 := h.nodes[0].state.(MemberState)
	master1 := h.nodes[1].state.(MasterState)
	member2 := h.nodes[2].state.(MemberState)
	if member0.MasterIndex != 1 || master1.Index != 1 || member2.MasterIndex != 1 {
		t.Fatalf("round 2 assignment wrong: node0=%+v node1=%+v node2=%+v", member0, master1, member2)
	}

	h.stop(t)

	for i, nd := range h.nodes {
		if nd.keys == nil || len(nd.keys.DealerCommitments) != n {
			t.Fatalf("node %d: dkg did not complete with %d dealer commitments", i, n)
		}
	}
}
