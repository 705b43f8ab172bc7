package services

import (
	"context"

	"github.com/reputesol/reputesol-go/internal/models"
)

// SignalSource fetches one normalized reputation signal for a wallet from
// an external system. Fetch never fails: every failure mode (missing
// credentials, network error, not-found, rate limit) is converted into a
// zero-scored Signal with a descriptive metadata entry, which lets the
// aggregator treat "source unreachable" the same as "source returned zero".
type SignalSource interface {
	Source() models.SignalSource
	Fetch(ctx context.Context, wallet string) models.Signal
}

// SignalAggregatorInterface defines the fan-out/fan-in step over all
// datasources.
type SignalAggregatorInterface interface {
	Aggregate(ctx context.Context, wallet string) models.AggregatedScore
}

// OrchestratorInterface is the single entry point that may mutate a
// wallet's on-chain score record.
type OrchestratorInterface interface {
	Run(ctx context.Context, wallet string) (*UpdateResult, error)
}

// ScoreReaderInterface is the read-only projection of the persisted
// account record, independent of the write path.
type ScoreReaderInterface interface {
	Read(ctx context.Context, wallet string) (*models.AccountRecord, error)
}

// HistoryRecorder persists one aggregation run for later display. Recording
// is best-effort; the orchestrator logs but does not fail on errors.
type HistoryRecorder interface {
	RecordRun(ctx context.Context, entry *models.ScoreHistoryEntry) error
}
