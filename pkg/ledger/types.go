package ledger

import (
	"errors"

	"github.com/reputesol/reputesol-go/internal/models"
)

// ErrAccountExists is returned by InitializeUser when the reputation
// account is already present. The PDA address is derived from the wallet,
// so a second create can never produce a duplicate; callers treat this as
// success.
var ErrAccountExists = errors.New("reputation account already initialized")

// InitializeRequest asks the gateway to create a zero-valued reputation
// account for a wallet.
type InitializeRequest struct {
	Wallet string `json:"wallet"`
}

// InitializeResponse carries the confirmed create transaction.
type InitializeResponse struct {
	Transaction string `json:"transaction"`
}

// UpdateScoreRequest asks the gateway to sign and submit an update_score
// instruction with the authority key.
type UpdateScoreRequest struct {
	Wallet       string `json:"wallet"`
	Authority    string `json:"authority"`
	GitcoinScore int    `json:"gitcoin_score"`
	SolanaScore  int    `json:"solana_score"`
}

// UpdateScoreResponse carries the confirmed transaction and the
// post-update account state as the program derived it.
type UpdateScoreResponse struct {
	Transaction string               `json:"transaction"`
	Account     models.AccountRecord `json:"account"`
}

// AccountResponse wraps a fetched account record.
type AccountResponse struct {
	Account models.AccountRecord `json:"account"`
}

// HealthResponse is the gateway health check payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Program string `json:"program"`
	Cluster string `json:"cluster"`
}

// ErrorResponse is the gateway's error payload. Code carries the program
// error name (e.g. "Unauthorized", "InvalidScore"); Field names the
// offending score field for validation failures.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
	Value int    `json:"value,omitempty"`
}
