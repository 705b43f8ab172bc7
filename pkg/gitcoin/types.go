package gitcoin

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ScoreResponse represents the scorer registry response for one wallet.
// The API returns the score as a decimal string.
type ScoreResponse struct {
	Address  string          `json:"address"`
	Score    decimal.Decimal `json:"score"`
	Status   string          `json:"status"`
	Evidence *ScoreEvidence  `json:"evidence,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// ScoreEvidence carries the scorer's supporting detail for a score.
type ScoreEvidence struct {
	Type      string          `json:"type"`
	Success   bool            `json:"success"`
	RawScore  decimal.Decimal `json:"rawScore"`
	Threshold decimal.Decimal `json:"threshold"`
}

// APIError represents a non-2xx response from the scorer API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gitcoin scorer error (%d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether the error is a 404 from the scorer, meaning
// the wallet has no passport rather than the API being unreachable.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == 404
}
