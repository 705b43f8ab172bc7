package models

import "time"

// Weighting applied by the on-chain program when deriving the total score.
// TotalScore = GitcoinScore*GitcoinWeight + SolanaScore*SolanaWeight,
// which keeps the total in [0,10000].
const (
	GitcoinWeight = 50
	SolanaWeight  = 50
)

// AccountRecord mirrors the on-chain reputation account (PDA) for one
// wallet. Owner is immutable once set; Bump is the PDA derivation byte and
// only meaningful to the program.
type AccountRecord struct {
	Owner        string `json:"owner"`
	GitcoinScore int    `json:"gitcoin_score"`
	SolanaScore  int    `json:"solana_score"`
	TotalScore   int64  `json:"total_score"`
	LastUpdated  int64  `json:"last_updated"`
	Bump         uint8  `json:"bump"`
}

// LastUpdatedTime returns the last update as a time.Time.
func (r *AccountRecord) LastUpdatedTime() time.Time {
	return time.Unix(r.LastUpdated, 0).UTC()
}

// WeightedTotal recomputes the program's total score formula locally.
// Handlers return it alongside the on-chain value for response
// transparency; the two must always agree.
func WeightedTotal(gitcoinScore, solanaScore int) int64 {
	return int64(gitcoinScore)*GitcoinWeight + int64(solanaScore)*SolanaWeight
}

// ScoreHistoryEntry is one recorded aggregation run for a wallet.
type ScoreHistoryEntry struct {
	ID           int64                  `json:"id" db:"id"`
	RunID        string                 `json:"run_id" db:"run_id"`
	Wallet       string                 `json:"wallet" db:"wallet"`
	GitcoinScore int                    `json:"gitcoin_score" db:"gitcoin_score"`
	SolanaScore  int                    `json:"solana_score" db:"solana_score"`
	TotalScore   int64                  `json:"total_score" db:"total_score"`
	Breakdown    map[string]interface{} `json:"breakdown,omitempty" db:"breakdown"`
	Transaction  string                 `json:"transaction" db:"transaction"`
	CreatedAt    time.Time              `json:"created_at" db:"created_at"`
}
