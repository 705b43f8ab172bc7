package ledger

import (
	"context"

	"github.com/reputesol/reputesol-go/internal/models"
)

// Ledger defines the three operations the reputation program exposes, plus
// a health probe. Implementations are the HTTP gateway client and the
// in-memory ledger used in tests.
type Ledger interface {
	// InitializeUser creates the zero-valued reputation account for a
	// wallet. Returns ErrAccountExists if one is already present.
	InitializeUser(ctx context.Context, wallet string) (*InitializeResponse, error)

	// UpdateScore overwrites both component scores and the derived total.
	// Fails with utils.ErrUnauthorized unless the configured authority
	// matches the program's, and with utils.InvalidScoreError for scores
	// outside [0,100].
	UpdateScore(ctx context.Context, wallet string, gitcoinScore, solanaScore int) (*UpdateScoreResponse, error)

	// GetUserScore fetches the account record, or utils.ErrNotFound if the
	// wallet was never initialized.
	GetUserScore(ctx context.Context, wallet string) (*models.AccountRecord, error)

	// HealthCheck probes gateway and program reachability.
	HealthCheck(ctx context.Context) error
}
