package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/reputesol/reputesol-go/internal/metrics"
	"github.com/reputesol/reputesol-go/internal/models"
	"github.com/reputesol/reputesol-go/internal/utils"
)

// UpdateResult is the confirmation returned by a full update run. Total is
// recomputed locally with the program's formula for response transparency
// and must match the on-chain value.
type UpdateResult struct {
	RunID        string                 `json:"run_id"`
	Wallet       string                 `json:"wallet"`
	GitcoinScore int                    `json:"gitcoin_score"`
	SolanaScore  int                    `json:"solana_score"`
	TotalScore   int64                  `json:"total_score"`
	Transaction  string                 `json:"transaction"`
	InitStatus   InitStatus             `json:"init_status"`
	Breakdown    models.AggregatedScore `json:"breakdown"`
	Account      models.AccountRecord   `json:"account"`
}

// UpdateOrchestrator sequences aggregation into the account lifecycle and
// is the only path that mutates a record's score fields. There is no
// per-wallet single-flight protection: two concurrent runs for the same
// wallet race to the ledger and the last write wins, matching the
// program's own semantics.
type UpdateOrchestrator struct {
	aggregator SignalAggregatorInterface
	lifecycle  *LifecycleManager
	history    HistoryRecorder
	logger     *logrus.Logger
}

var _ OrchestratorInterface = (*UpdateOrchestrator)(nil)

// NewUpdateOrchestrator creates the orchestrator. history may be nil to
// disable run recording.
func NewUpdateOrchestrator(aggregator SignalAggregatorInterface, lifecycle *LifecycleManager, history HistoryRecorder, logger *logrus.Logger) *UpdateOrchestrator {
	return &UpdateOrchestrator{
		aggregator: aggregator,
		lifecycle:  lifecycle,
		history:    history,
		logger:     logger,
	}
}

// Run executes the full pipeline for one wallet: validate, aggregate,
// ensure the account exists, write the scores, confirm. Initialization is
// attempted before every update so a never-initialized account self-heals
// without a separate client call. Ledger failures abort the run and are
// surfaced to the caller unchanged; nothing is retried.
func (o *UpdateOrchestrator) Run(ctx context.Context, wallet string) (*UpdateResult, error) {
	if err := utils.ValidateWalletAddress(wallet); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := o.logger.WithFields(logrus.Fields{"run_id": runID, "wallet": wallet})
	started := time.Now()

	aggregated := o.aggregator.Aggregate(ctx, wallet)

	initStatus, err := o.lifecycle.EnsureInitialized(ctx, wallet)
	if err != nil {
		metrics.UpdateRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	receipt, err := o.lifecycle.ApplyUpdate(ctx, wallet, aggregated.GitcoinScore, aggregated.SolanaScore)
	if err != nil {
		metrics.UpdateRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	total := models.WeightedTotal(aggregated.GitcoinScore, aggregated.SolanaScore)
	if receipt.Account.TotalScore != total {
		// The local formula and the program must agree; a mismatch means
		// one of them changed without the other.
		log.WithFields(logrus.Fields{
			"local_total": total,
			"chain_total": receipt.Account.TotalScore,
		}).Warn("Local total diverges from on-chain total")
	}

	result := &UpdateResult{
		RunID:        runID,
		Wallet:       wallet,
		GitcoinScore: aggregated.GitcoinScore,
		SolanaScore:  aggregated.SolanaScore,
		TotalScore:   total,
		Transaction:  receipt.Transaction,
		InitStatus:   initStatus,
		Breakdown:    aggregated,
		Account:      receipt.Account,
	}

	o.recordRun(ctx, result, log)

	metrics.UpdateRuns.WithLabelValues("success").Inc()
	metrics.UpdateDuration.Observe(time.Since(started).Seconds())
	log.WithFields(logrus.Fields{
		"gitcoin_score": result.GitcoinScore,
		"solana_score":  result.SolanaScore,
		"total_score":   result.TotalScore,
		"transaction":   result.Transaction,
		"init_status":   result.InitStatus,
	}).Info("Reputation score updated")

	return result, nil
}

// recordRun persists the run for the score history view. Best-effort: a
// history failure never fails an already-committed update.
func (o *UpdateOrchestrator) recordRun(ctx context.Context, result *UpdateResult, log *logrus.Entry) {
	if o.history == nil {
		return
	}

	entry := &models.ScoreHistoryEntry{
		RunID:        result.RunID,
		Wallet:       result.Wallet,
		GitcoinScore: result.GitcoinScore,
		SolanaScore:  result.SolanaScore,
		TotalScore:   result.TotalScore,
		Breakdown: map[string]interface{}{
			"gitcoin": result.Breakdown.Gitcoin,
			"solana":  result.Breakdown.Solana,
		},
		Transaction: result.Transaction,
	}
	if err := o.history.RecordRun(ctx, entry); err != nil {
		log.WithError(err).Warn("Failed to record score history entry")
	}
}
