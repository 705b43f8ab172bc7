package solrpc

import (
	"encoding/json"
	"fmt"
)

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is the error object of a JSON-RPC response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("solana rpc error (%d): %s", e.Code, e.Message)
}

// SignatureInfo is one entry of a getSignaturesForAddress result. BlockTime
// is nil for transactions the node has not timestamped.
type SignatureInfo struct {
	Signature string      `json:"signature"`
	Slot      uint64      `json:"slot"`
	BlockTime *int64      `json:"blockTime"`
	Err       interface{} `json:"err"`
}

// contextValue is the common {context, value} envelope of account queries.
type contextValue struct {
	Context struct {
		Slot uint64 `json:"slot"`
	} `json:"context"`
	Value json.RawMessage `json:"value"`
}

// TokenAccount is one entry of a getTokenAccountsByOwner result. Only the
// pubkey is consumed here; the parsed account data is left raw.
type TokenAccount struct {
	Pubkey  string          `json:"pubkey"`
	Account json.RawMessage `json:"account"`
}

// LamportsPerSol converts lamports to whole SOL.
const LamportsPerSol = 1_000_000_000
