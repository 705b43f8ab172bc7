package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SignalSource identifies the external system a reputation signal came from.
type SignalSource string

const (
	// SourceGitcoin is the Gitcoin Passport sybil-resistance provider.
	SourceGitcoin SignalSource = "gitcoin"
	// SourceSolana is the on-chain activity provider (Solana RPC).
	SourceSolana SignalSource = "solana"
)

// Signal represents one datasource's reputation measurement for a wallet.
// RawScore is the provider-native value; NormalizedScore is always clamped
// to [0,100]. A failed fetch yields a zero-valued Signal with an "error"
// metadata entry, never a missing value.
type Signal struct {
	Source          SignalSource           `json:"source"`
	RawScore        decimal.Decimal        `json:"raw_score"`
	NormalizedScore int                    `json:"normalized_score"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	FetchedAt       time.Time              `json:"fetched_at"`
}

// ErrorSignal builds the zero-valued fallback Signal for a fetch that
// could not produce a score.
func ErrorSignal(source SignalSource, reason string) Signal {
	return Signal{
		Source:          source,
		RawScore:        decimal.Zero,
		NormalizedScore: 0,
		Metadata:        map[string]interface{}{"error": reason},
		FetchedAt:       time.Now().UTC(),
	}
}

// Failed reports whether the signal carries an error annotation.
func (s Signal) Failed() bool {
	if s.Metadata == nil {
		return false
	}
	_, ok := s.Metadata["error"]
	return ok
}

// NormalizeScore rounds a provider-native score to the nearest integer and
// clamps it to [0,100].
func NormalizeScore(raw decimal.Decimal) int {
	n := raw.Round(0).IntPart()
	if n > 100 {
		return 100
	}
	if n < 0 {
		return 0
	}
	return int(n)
}

// AggregatedScore is the combined result of both datasources for one wallet.
// The component scores are the rounded normalized scores; the weighted total
// is computed by the on-chain program, not here.
type AggregatedScore struct {
	Gitcoin      Signal `json:"gitcoin"`
	Solana       Signal `json:"solana"`
	GitcoinScore int    `json:"gitcoin_score"`
	SolanaScore  int    `json:"solana_score"`
}
