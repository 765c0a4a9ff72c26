package rpc

import (
	"context"
	"sync"
)

// Fake is a scriptable Client for tests, grounded on the original node's
// MockRpc test helper (original_source/src/signer_node/mod.rs) which let
// each test pin the exact sequence of full-node responses a round would
// see.
type Fake struct {
	mu sync.Mutex

	NewBlock         Block
	NewBlockErr      error
	TestProposedOK   bool
	TestProposedErr  error
	SubmitErr        error
	BlockchainInfo   BlockchainInfo
	BlockchainErr    error

	SubmittedBlocks []Block
	Calls           []string
}

// NewFake returns a Fake preloaded with an accepting, synced-chain default.
func NewFake() *Fake {
	return &Fake{TestProposedOK: true}
}

func (f *Fake) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, call)
}

// Submitted returns a snapshot of the blocks accepted so far by
// SubmitBlock, safe to call concurrently with a running Node.
func (f *Fake) Submitted() []Block {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Block, len(f.SubmittedBlocks))
	copy(out, f.SubmittedBlocks)
	return out
}

// GetNewBlock implements Client.
func (f *Fake) GetNewBlock(ctx context.Context, address string) (Block, error) {
	f.record("getnewblock")
	if f.NewBlockErr != nil {
		return Block{}, f.NewBlockErr
	}
	return f.NewBlock, nil
}

// TestProposedBlock implements Client.
func (f *Fake) TestProposedBlock(ctx context.Context, block Block) (bool, error) {
	f.record("testproposedblock")
	if f.TestProposedErr != nil {
		return false, f.TestProposedErr
	}
	return f.TestProposedOK, nil
}

// SubmitBlock implements Client.
func (f *Fake) SubmitBlock(ctx context.Context, block Block) error {
	f.record("submitblock")
	if f.SubmitErr != nil {
		return f.SubmitErr
	}
	f.mu.Lock()
	f.SubmittedBlocks = append(f.SubmittedBlocks, block)
	f.mu.Unlock()
	return nil
}

// GetBlockchainInfo implements Client.
func (f *Fake) GetBlockchainInfo(ctx context.Context) (BlockchainInfo, error) {
	f.record("getblockchaininfo")
	if f.BlockchainErr != nil {
		return BlockchainInfo{}, f.BlockchainErr
	}
	return f.BlockchainInfo, nil
}
