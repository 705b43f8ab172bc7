package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reputesol/reputesol-go/internal/config"
	"github.com/reputesol/reputesol-go/internal/models"
)

// fakeSolanaNode serves canned JSON-RPC responses keyed by method name.
type fakeSolanaNode struct {
	results map[string]string
	errs    map[string]string
}

func (n *fakeSolanaNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if msg, ok := n.errs[req.Method]; ok {
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":%q}}`, msg)
		return
	}
	fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":%s}`, n.results[req.Method])
}

func newSolanaSource(t *testing.T, node *fakeSolanaNode) *SolanaSource {
	t.Helper()
	server := httptest.NewServer(node)
	t.Cleanup(server.Close)

	cfg := &config.SolanaConfig{
		RPCURL:            server.URL,
		Timeout:           2,
		SignatureLookback: 1000,
		TokenProgramID:    "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
	}
	return NewSolanaSource(cfg, testLogger())
}

func TestSolanaFetchScoresActiveWallet(t *testing.T) {
	// Oldest signature two years back saturates the age component; 1000
	// transactions saturate the tx component; 10 SOL saturates balance.
	oldBlockTime := time.Now().Add(-2 * 365 * 24 * time.Hour).Unix()

	signatures := make([]string, 1000)
	for i := range signatures {
		blockTime := time.Now().Unix()
		if i == len(signatures)-1 {
			blockTime = oldBlockTime
		}
		signatures[i] = fmt.Sprintf(`{"signature":"sig%d","slot":%d,"blockTime":%d}`, i, 1000+i, blockTime)
	}

	node := &fakeSolanaNode{results: map[string]string{
		"getSignaturesForAddress": "[" + strings.Join(signatures, ",") + "]",
		"getBalance":              `{"context":{"slot":100},"value":10000000000}`,
		"getTokenAccountsByOwner": `{"context":{"slot":100},"value":[{"pubkey":"tok1"},{"pubkey":"tok2"}]}`,
	}}

	signal := newSolanaSource(t, node).Fetch(context.Background(), testWallet)

	require.False(t, signal.Failed())
	assert.Equal(t, models.SourceSolana, signal.Source)
	assert.Equal(t, 100, signal.NormalizedScore)
	assert.Equal(t, 1000, signal.Metadata["transaction_count"])
	assert.Equal(t, "10.0000", signal.Metadata["sol_balance"])
	assert.Equal(t, 2, signal.Metadata["token_accounts"])
}

func TestSolanaFetchDormantWallet(t *testing.T) {
	node := &fakeSolanaNode{results: map[string]string{
		"getSignaturesForAddress": `[]`,
		"getBalance":              `{"context":{"slot":100},"value":0}`,
		"getTokenAccountsByOwner": `{"context":{"slot":100},"value":[]}`,
	}}

	signal := newSolanaSource(t, node).Fetch(context.Background(), testWallet)

	require.False(t, signal.Failed())
	assert.Equal(t, 0, signal.NormalizedScore)
	assert.Equal(t, 0, signal.Metadata["transaction_count"])
}

func TestSolanaFetchPartialActivity(t *testing.T) {
	// 100 transactions of 1000 -> 4 tx points; 1 SOL of 10 -> 3 balance
	// points; fresh account -> 0 age points. Raw score 7.
	signatures := make([]string, 100)
	now := time.Now().Unix()
	for i := range signatures {
		signatures[i] = fmt.Sprintf(`{"signature":"sig%d","slot":%d,"blockTime":%d}`, i, 1000+i, now)
	}

	node := &fakeSolanaNode{results: map[string]string{
		"getSignaturesForAddress": "[" + strings.Join(signatures, ",") + "]",
		"getBalance":              `{"context":{"slot":100},"value":1000000000}`,
		"getTokenAccountsByOwner": `{"context":{"slot":100},"value":[]}`,
	}}

	signal := newSolanaSource(t, node).Fetch(context.Background(), testWallet)

	require.False(t, signal.Failed())
	assert.Equal(t, 7, signal.NormalizedScore)

	breakdown, ok := signal.Metadata["breakdown"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "4.00", breakdown["tx_score"])
	assert.Equal(t, "3.00", breakdown["balance_score"])
}

func TestSolanaFetchRPCErrorBecomesErrorSignal(t *testing.T) {
	node := &fakeSolanaNode{
		results: map[string]string{},
		errs:    map[string]string{"getSignaturesForAddress": "invalid param"},
	}

	signal := newSolanaSource(t, node).Fetch(context.Background(), testWallet)

	assert.True(t, signal.Failed())
	assert.Equal(t, 0, signal.NormalizedScore)
}

func TestSolanaFetchBalanceErrorBecomesErrorSignal(t *testing.T) {
	node := &fakeSolanaNode{
		results: map[string]string{"getSignaturesForAddress": `[]`},
		errs:    map[string]string{"getBalance": "node behind"},
	}

	signal := newSolanaSource(t, node).Fetch(context.Background(), testWallet)
	assert.True(t, signal.Failed())
}

func TestSolanaFetchUnreachableNode(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	cfg := &config.SolanaConfig{RPCURL: server.URL, Timeout: 1}
	signal := NewSolanaSource(cfg, testLogger()).Fetch(context.Background(), testWallet)

	assert.True(t, signal.Failed())
}
