package rpc

import (
	"context"
	"crypto/sha256"
	"errors"
	"testing"
)

func TestFakeRecordsCallOrder(t *testing.T) {
	f := NewFake()
	ctx := context.Background()

	f.GetNewBlock(ctx, "addr")
	f.TestProposedBlock(ctx, Block{})
	f.SubmitBlock(ctx, Block{Raw: []byte{1}})
	f.GetBlockchainInfo(ctx)

	want := []string{"getnewblock", "testproposedblock", "submitblock", "getblockchaininfo"}
	if len(f.Calls) != len(want) {
		t.Fatalf("got %d calls, want %d: %v", len(f.Calls), len(want), f.Calls)
	}
	for i, w := range want {
		if f.Calls[i] != w {
			t.Fatalf("call %d = %q, want %q", i, f.Calls[i], w)
		}
	}
}

func TestFakeDefaultsToAcceptingProposedBlocks(t *testing.T) {
	f := NewFake()
	ok, err := f.TestProposedBlock(context.Background(), Block{})
	if err != nil || !ok {
		t.Fatalf("expected a default-accepting Fake, got ok=%v err=%v", ok, err)
	}
}

func TestFakeSubmitBlockRecordsSubmissions(t *testing.T) {
	f := NewFake()
	block := Block{Raw: []byte{0xaa, 0xbb}}
	if err := f.SubmitBlock(context.Background(), block); err != nil {
		t.Fatalf("SubmitBlock: %v", err)
	}
	if len(f.SubmittedBlocks) != 1 || string(f.SubmittedBlocks[0].Raw) != string(block.Raw) {
		t.Fatalf("submitted block not recorded: %v", f.SubmittedBlocks)
	}
}

func TestFakePropagatesScriptedErrors(t *testing.T) {
	f := NewFake()
	f.NewBlockErr = errors.New("no block")
	if _, err := f.GetNewBlock(context.Background(), "addr"); err == nil {
		t.Fatal("expected scripted error from GetNewBlock")
	}

	f2 := NewFake()
	f2.SubmitErr = errors.New("rejected")
	if err := f2.SubmitBlock(context.Background(), Block{}); err == nil {
		t.Fatal("expected scripted error from SubmitBlock")
	}
}

func TestBlockSighashIsDoubleSHA256(t *testing.T) {
	b := Block{Raw: []byte("candidate block bytes")}
	h1 := b.Sighash()
	h2 := b.Sighash()
	if h1 != h2 {
		t.Fatal("Sighash must be deterministic")
	}
	first := sha256.Sum256(b.Raw)
	if want := sha256.Sum256(first[:]); h1 != want {
		t.Fatalf("Sighash = %x, want SHA256(SHA256(raw)) = %x", h1, want)
	}
}
