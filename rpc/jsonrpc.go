package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tapyrus-federation/signerd/signererr"
)

// JSONRPCClient implements Client over JSON-RPC via HTTP Basic auth, the
// transport the CLI's --rpchost/--rpcport/--rpcuser/--rpcpass flags
// describe (spec §6).
type JSONRPCClient struct {
	endpoint string
	user     string
	pass     string
	http     *http.Client
}

// NewJSONRPCClient builds a client pointed at http://host:port.
func NewJSONRPCClient(host string, port int, user, pass string) *JSONRPCClient {
	return &JSONRPCClient{
		endpoint: fmt.Sprintf("http://%s:%d", host, port),
		user:     user,
		pass:     pass,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *JSONRPCClient) call(ctx context.Context, method string, params []interface{}, out interface{}) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "1.0", ID: "signerd", Method: method, Params: params})
	if err != nil {
		return signererr.New(signererr.Rpc, method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return signererr.New(signererr.Rpc, method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.user, c.pass)

	resp, err := c.http.Do(req)
	if err != nil {
		return signererr.New(signererr.Rpc, method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return signererr.New(signererr.Rpc, method, err)
	}

	var rr rpcResponse
	if err := json.Unmarshal(raw, &rr); err != nil {
		return signererr.New(signererr.Rpc, method, fmt.Errorf("decode response: %w", err))
	}
	if rr.Error != nil {
		return signererr.New(signererr.Rpc, method, fmt.Errorf("rpc error %d: %s", rr.Error.Code, rr.Error.Message))
	}

	if out != nil {
		if err := json.Unmarshal(rr.Result, out); err != nil {
			return signererr.New(signererr.Rpc, method, fmt.Errorf("decode result: %w", err))
		}
	}
	return nil
}

// GetNewBlock implements Client.
func (c *JSONRPCClient) GetNewBlock(ctx context.Context, address string) (Block, error) {
	var hex string
	if err := c.call(ctx, "getnewblock", []interface{}{address}, &hex); err != nil {
		return Block{}, err
	}
	raw, err := decodeHex(hex)
	if err != nil {
		return Block{}, signererr.New(signererr.Rpc, "getnewblock", err)
	}
	return Block{Raw: raw}, nil
}

// TestProposedBlock implements Client.
func (c *JSONRPCClient) TestProposedBlock(ctx context.Context, block Block) (bool, error) {
	var ok bool
	if err := c.call(ctx, "testproposedblock", []interface{}{encodeHex(block.Raw)}, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// SubmitBlock implements Client.
func (c *JSONRPCClient) SubmitBlock(ctx context.Context, block Block) error {
	return c.call(ctx, "submitblock", []interface{}{encodeHex(block.Raw)}, nil)
}

// GetBlockchainInfo implements Client.
func (c *JSONRPCClient) GetBlockchainInfo(ctx context.Context) (BlockchainInfo, error) {
	var result struct {
		InitialBlockDownload bool   `json:"initialblockdownload"`
		Blocks               uint64 `json:"blocks"`
		BestBlockHash         string `json:"bestblockhash"`
	}
	if err := c.call(ctx, "getblockchaininfo", nil, &result); err != nil {
		return BlockchainInfo{}, err
	}
	return BlockchainInfo{
		InitialBlockDownload: result.InitialBlockDownload,
		Blocks:               result.Blocks,
		BestBlockHash:        result.BestBlockHash,
	}, nil
}
