// Package rpc defines the narrow interface to the full node used by the
// signer core (spec §4.4, §6) and a JSON-RPC-over-HTTP-Basic-auth
// implementation of it.
package rpc

import "context"

// Block is an opaque blob with a deterministic sighash, the message signed
// by the federation (spec §3).
type Block struct {
	Raw []byte
}

// Sighash returns the deterministic digest of the block that gets signed.
func (b Block) Sighash() [32]byte {
	return sigHash(b.Raw)
}

// BlockchainInfo mirrors the getblockchaininfo RPC response fields this
// node depends on.
type BlockchainInfo struct {
	InitialBlockDownload bool
	Blocks               uint64
	BestBlockHash        string
}

// Client is the full-node RPC surface the signer core depends on. The
// JSON-RPC implementation reports every failure as a signererr.Rpc error;
// network failures and protocol rejections are not told apart by kind.
type Client interface {
	// GetNewBlock asks the full node to assemble an unsigned candidate
	// paying out to address.
	GetNewBlock(ctx context.Context, address string) (Block, error)

	// TestProposedBlock validates a candidate's structure and rules.
	TestProposedBlock(ctx context.Context, block Block) (bool, error)

	// SubmitBlock injects a fully signed block.
	SubmitBlock(ctx context.Context, block Block) error

	// GetBlockchainInfo reports the full node's chain-sync state.
	GetBlockchainInfo(ctx context.Context) (BlockchainInfo, error)
}
