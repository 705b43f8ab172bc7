package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/reputesol/reputesol-go/internal/models"
	"github.com/reputesol/reputesol-go/internal/utils"
	"github.com/reputesol/reputesol-go/pkg/ledger"
)

// MockLedger implements ledger.Ledger for tests that need call-level
// expectations.
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) InitializeUser(ctx context.Context, wallet string) (*ledger.InitializeResponse, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.InitializeResponse), args.Error(1)
}

func (m *MockLedger) UpdateScore(ctx context.Context, wallet string, gitcoinScore, solanaScore int) (*ledger.UpdateScoreResponse, error) {
	args := m.Called(ctx, wallet, gitcoinScore, solanaScore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.UpdateScoreResponse), args.Error(1)
}

func (m *MockLedger) GetUserScore(ctx context.Context, wallet string) (*models.AccountRecord, error) {
	args := m.Called(ctx, wallet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccountRecord), args.Error(1)
}

func (m *MockLedger) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MemoryLedger is an in-memory stand-in for the on-chain program with the
// program's real semantics: one account per wallet, authority gating on
// writes and range checks on both score fields. Tests use it where mock
// expectations would obscure the state machine under test.
type MemoryLedger struct {
	mu        sync.Mutex
	accounts  map[string]*models.AccountRecord
	authority string
	caller    string
	txSeq     int
}

// NewMemoryLedger creates a ledger whose program authority is authority and
// whose requests are signed by caller.
func NewMemoryLedger(authority, caller string) *MemoryLedger {
	return &MemoryLedger{
		accounts:  make(map[string]*models.AccountRecord),
		authority: authority,
		caller:    caller,
	}
}

func (l *MemoryLedger) InitializeUser(ctx context.Context, wallet string) (*ledger.InitializeResponse, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.accounts[wallet]; ok {
		return nil, ledger.ErrAccountExists
	}
	l.accounts[wallet] = &models.AccountRecord{
		Owner:       wallet,
		LastUpdated: time.Now().Unix(),
		Bump:        255,
	}
	l.txSeq++
	return &ledger.InitializeResponse{Transaction: l.signature("init")}, nil
}

func (l *MemoryLedger) UpdateScore(ctx context.Context, wallet string, gitcoinScore, solanaScore int) (*ledger.UpdateScoreResponse, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.caller != l.authority {
		return nil, utils.ErrUnauthorized
	}
	if gitcoinScore < 0 || gitcoinScore > 100 {
		return nil, utils.NewInvalidScoreError("gitcoin_score", gitcoinScore)
	}
	if solanaScore < 0 || solanaScore > 100 {
		return nil, utils.NewInvalidScoreError("solana_score", solanaScore)
	}
	account, ok := l.accounts[wallet]
	if !ok {
		return nil, utils.ErrNotFound
	}

	account.GitcoinScore = gitcoinScore
	account.SolanaScore = solanaScore
	account.TotalScore = models.WeightedTotal(gitcoinScore, solanaScore)
	account.LastUpdated = time.Now().Unix()
	l.txSeq++

	copied := *account
	return &ledger.UpdateScoreResponse{
		Transaction: l.signature("update"),
		Account:     copied,
	}, nil
}

func (l *MemoryLedger) GetUserScore(ctx context.Context, wallet string) (*models.AccountRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	account, ok := l.accounts[wallet]
	if !ok {
		return nil, utils.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (l *MemoryLedger) HealthCheck(ctx context.Context) error {
	return nil
}

// WithCaller returns a view over the same account store whose requests are
// signed by a different caller, for authority gating tests.
func (l *MemoryLedger) WithCaller(caller string) *MemoryLedger {
	return &MemoryLedger{
		accounts:  l.accounts,
		authority: l.authority,
		caller:    caller,
	}
}

// AccountCount reports how many accounts exist, for idempotency assertions.
func (l *MemoryLedger) AccountCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.accounts)
}

func (l *MemoryLedger) signature(op string) string {
	return fmt.Sprintf("memtx-%s-%04d", op, l.txSeq)
}

// StubSource is a SignalSource returning a fixed Signal, optionally after a
// delay. Aggregator tests use the delay to exercise ordering independence.
type StubSource struct {
	SourceType models.SignalSource
	Signal     models.Signal
	Delay      time.Duration
}

func (s *StubSource) Source() models.SignalSource {
	return s.SourceType
}

func (s *StubSource) Fetch(ctx context.Context, wallet string) models.Signal {
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
		}
	}
	return s.Signal
}

// MockHistoryRecorder implements HistoryRecorder for orchestrator tests.
type MockHistoryRecorder struct {
	mock.Mock
}

func (m *MockHistoryRecorder) RecordRun(ctx context.Context, entry *models.ScoreHistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
