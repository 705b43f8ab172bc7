package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/reputesol/reputesol-go/internal/metrics"
	"github.com/reputesol/reputesol-go/internal/models"
	"github.com/reputesol/reputesol-go/internal/utils"
	"github.com/reputesol/reputesol-go/pkg/ledger"
)

// AccountState is the lifecycle state of a wallet's on-chain record.
// Updated is a refinement of Initialized: every updated record is also a
// valid initialized record with non-default fields.
type AccountState string

const (
	StateAbsent      AccountState = "absent"
	StateInitialized AccountState = "initialized"
	StateUpdated     AccountState = "updated"
)

// InitStatus is the outcome of EnsureInitialized. Both values are success.
type InitStatus string

const (
	InitCreated        InitStatus = "created"
	InitAlreadyExisted InitStatus = "already_existed"
)

// UpdateReceipt confirms a committed score update.
type UpdateReceipt struct {
	Transaction string
	Account     models.AccountRecord
}

// LifecycleManager owns the create/update/fetch state machine of a
// wallet's reputation account against the ledger. It performs the local
// range checks before any write and surfaces ledger failures verbatim; it
// never retries.
type LifecycleManager struct {
	ledger ledger.Ledger
	logger *logrus.Logger
}

// NewLifecycleManager creates the account lifecycle manager.
func NewLifecycleManager(l ledger.Ledger, logger *logrus.Logger) *LifecycleManager {
	return &LifecycleManager{
		ledger: l,
		logger: logger,
	}
}

// EnsureInitialized creates the wallet's zero-valued account if it does not
// exist. Idempotent: the PDA address is derived from the wallet, so the
// program rejects a duplicate create, and a concurrent create racing us is
// reported as already_existed rather than an error.
func (m *LifecycleManager) EnsureInitialized(ctx context.Context, wallet string) (InitStatus, error) {
	_, err := m.ledger.GetUserScore(ctx, wallet)
	if err == nil {
		return InitAlreadyExisted, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		metrics.LedgerCalls.WithLabelValues("fetch", "error").Inc()
		return "", err
	}

	if _, err := m.ledger.InitializeUser(ctx, wallet); err != nil {
		if errors.Is(err, ledger.ErrAccountExists) {
			// Lost a create race; the account is there, which is all we need.
			return InitAlreadyExisted, nil
		}
		metrics.LedgerCalls.WithLabelValues("initialize", "error").Inc()
		return "", err
	}

	metrics.LedgerCalls.WithLabelValues("initialize", "ok").Inc()
	m.logger.WithField("wallet", wallet).Info("Initialized reputation account")
	return InitCreated, nil
}

// ApplyUpdate overwrites both component scores on the wallet's record.
// The operation is a full replace, not a delta: the program recomputes the
// weighted total and stamps last_updated from chain time. Scores outside
// [0,100] are rejected per field before any ledger call.
func (m *LifecycleManager) ApplyUpdate(ctx context.Context, wallet string, gitcoinScore, solanaScore int) (*UpdateReceipt, error) {
	if gitcoinScore < 0 || gitcoinScore > 100 {
		return nil, utils.NewInvalidScoreError("gitcoin_score", gitcoinScore)
	}
	if solanaScore < 0 || solanaScore > 100 {
		return nil, utils.NewInvalidScoreError("solana_score", solanaScore)
	}

	resp, err := m.ledger.UpdateScore(ctx, wallet, gitcoinScore, solanaScore)
	if err != nil {
		metrics.LedgerCalls.WithLabelValues("update", "error").Inc()
		return nil, err
	}

	metrics.LedgerCalls.WithLabelValues("update", "ok").Inc()
	return &UpdateReceipt{
		Transaction: resp.Transaction,
		Account:     resp.Account,
	}, nil
}

// Fetch reads the wallet's account record. Pure read, no side effects;
// utils.ErrNotFound when the wallet was never initialized.
func (m *LifecycleManager) Fetch(ctx context.Context, wallet string) (*models.AccountRecord, error) {
	return m.ledger.GetUserScore(ctx, wallet)
}

// StateOf classifies a fetched record. A nil record is Absent; an all-zero
// record is merely Initialized; anything else has been Updated. A genuine
// (0,0) update is indistinguishable from freshly initialized, which is fine
// since Updated refines Initialized.
func StateOf(record *models.AccountRecord) AccountState {
	if record == nil {
		return StateAbsent
	}
	if record.GitcoinScore == 0 && record.SolanaScore == 0 && record.TotalScore == 0 {
		return StateInitialized
	}
	return StateUpdated
}
