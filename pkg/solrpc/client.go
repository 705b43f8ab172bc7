package solrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/reputesol/reputesol-go/internal/config"
)

// Client is a minimal JSON-RPC client for the handful of Solana node
// methods the activity datasource needs.
type Client struct {
	HTTPClient *http.Client
	RPCURL     string
}

// NewClient creates a new Solana RPC client from configuration.
func NewClient(cfg *config.SolanaConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		RPCURL: strings.TrimSuffix(cfg.RPCURL, "/"),
	}
}

// GetSignaturesForAddress lists the most recent transaction signatures for
// an address, newest first, up to limit.
func (c *Client) GetSignaturesForAddress(ctx context.Context, address string, limit int) ([]SignatureInfo, error) {
	raw, err := c.call(ctx, "getSignaturesForAddress", []interface{}{
		address,
		map[string]interface{}{"limit": limit},
	})
	if err != nil {
		return nil, err
	}

	var signatures []SignatureInfo
	if err := json.Unmarshal(raw, &signatures); err != nil {
		return nil, fmt.Errorf("failed to unmarshal signatures: %w", err)
	}
	return signatures, nil
}

// GetBalance returns the current balance of an address in lamports.
func (c *Client) GetBalance(ctx context.Context, address string) (uint64, error) {
	raw, err := c.call(ctx, "getBalance", []interface{}{address})
	if err != nil {
		return 0, err
	}

	var envelope contextValue
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return 0, fmt.Errorf("failed to unmarshal balance: %w", err)
	}
	var lamports uint64
	if err := json.Unmarshal(envelope.Value, &lamports); err != nil {
		return 0, fmt.Errorf("failed to unmarshal balance value: %w", err)
	}
	return lamports, nil
}

// GetTokenAccountsByOwner enumerates token accounts held by an address
// under the given token program.
func (c *Client) GetTokenAccountsByOwner(ctx context.Context, address, tokenProgramID string) ([]TokenAccount, error) {
	raw, err := c.call(ctx, "getTokenAccountsByOwner", []interface{}{
		address,
		map[string]interface{}{"programId": tokenProgramID},
		map[string]interface{}{"encoding": "jsonParsed"},
	})
	if err != nil {
		return nil, err
	}

	var envelope contextValue
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token accounts: %w", err)
	}
	var accounts []TokenAccount
	if err := json.Unmarshal(envelope.Value, &accounts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token account list: %w", err)
	}
	return accounts, nil
}

// call performs one JSON-RPC request against the node.
func (c *Client) call(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.RPCURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach solana rpc: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("solana rpc http error (%d): %s", resp.StatusCode, string(respBody))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rpc response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}

	return rpcResp.Result, nil
}
