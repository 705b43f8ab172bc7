package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/reputesol/reputesol-go/internal/models"
	"github.com/reputesol/reputesol-go/internal/utils"
	"github.com/reputesol/reputesol-go/pkg/ledger"
)

const testAuthority = "AuthzQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DAxyz"

func TestEnsureInitializedCreatesAbsentAccount(t *testing.T) {
	mem := NewMemoryLedger(testAuthority, testAuthority)
	manager := NewLifecycleManager(mem, testLogger())

	status, err := manager.EnsureInitialized(context.Background(), testWallet)

	require.NoError(t, err)
	assert.Equal(t, InitCreated, status)
	assert.Equal(t, 1, mem.AccountCount())

	record, err := mem.GetUserScore(context.Background(), testWallet)
	require.NoError(t, err)
	assert.Equal(t, testWallet, record.Owner)
	assert.Equal(t, 0, record.GitcoinScore)
	assert.Equal(t, 0, record.SolanaScore)
	assert.Equal(t, int64(0), record.TotalScore)
}

func TestEnsureInitializedIsIdempotent(t *testing.T) {
	mem := NewMemoryLedger(testAuthority, testAuthority)
	manager := NewLifecycleManager(mem, testLogger())

	status, err := manager.EnsureInitialized(context.Background(), testWallet)
	require.NoError(t, err)
	assert.Equal(t, InitCreated, status)

	status, err = manager.EnsureInitialized(context.Background(), testWallet)
	require.NoError(t, err)
	assert.Equal(t, InitAlreadyExisted, status)
	assert.Equal(t, 1, mem.AccountCount())
}

func TestEnsureInitializedAbsorbsCreateRace(t *testing.T) {
	// GetUserScore says absent, but the create loses a race with a
	// concurrent initializer. The account exists, so the outcome is success.
	ml := &MockLedger{}
	ml.On("GetUserScore", mock.Anything, testWallet).Return(nil, utils.ErrNotFound)
	ml.On("InitializeUser", mock.Anything, testWallet).Return(nil, ledger.ErrAccountExists)

	manager := NewLifecycleManager(ml, testLogger())
	status, err := manager.EnsureInitialized(context.Background(), testWallet)

	require.NoError(t, err)
	assert.Equal(t, InitAlreadyExisted, status)
	ml.AssertExpectations(t)
}

func TestEnsureInitializedSurfacesLedgerFailure(t *testing.T) {
	cause := utils.NewLedgerUnavailableError("fetch", errors.New("rpc down"))
	ml := &MockLedger{}
	ml.On("GetUserScore", mock.Anything, testWallet).Return(nil, cause)

	manager := NewLifecycleManager(ml, testLogger())
	_, err := manager.EnsureInitialized(context.Background(), testWallet)

	assert.True(t, utils.IsLedgerUnavailable(err))
	ml.AssertNotCalled(t, "InitializeUser", mock.Anything, mock.Anything)
}

func TestApplyUpdateWritesBothScores(t *testing.T) {
	mem := NewMemoryLedger(testAuthority, testAuthority)
	manager := NewLifecycleManager(mem, testLogger())

	_, err := manager.EnsureInitialized(context.Background(), testWallet)
	require.NoError(t, err)

	receipt, err := manager.ApplyUpdate(context.Background(), testWallet, 75, 60)
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.Transaction)
	assert.Equal(t, 75, receipt.Account.GitcoinScore)
	assert.Equal(t, 60, receipt.Account.SolanaScore)
	assert.Equal(t, int64(6750), receipt.Account.TotalScore)
}

func TestApplyUpdateIsFullReplace(t *testing.T) {
	mem := NewMemoryLedger(testAuthority, testAuthority)
	manager := NewLifecycleManager(mem, testLogger())

	_, err := manager.EnsureInitialized(context.Background(), testWallet)
	require.NoError(t, err)

	_, err = manager.ApplyUpdate(context.Background(), testWallet, 90, 90)
	require.NoError(t, err)

	// A later lower pair overwrites; nothing accumulates.
	receipt, err := manager.ApplyUpdate(context.Background(), testWallet, 10, 20)
	require.NoError(t, err)
	assert.Equal(t, 10, receipt.Account.GitcoinScore)
	assert.Equal(t, 20, receipt.Account.SolanaScore)
	assert.Equal(t, int64(1500), receipt.Account.TotalScore)
}

func TestApplyUpdateRejectsOutOfRangeScores(t *testing.T) {
	tests := []struct {
		name    string
		gitcoin int
		solana  int
		field   string
		value   int
	}{
		{name: "gitcoin above ceiling", gitcoin: 101, solana: 50, field: "gitcoin_score", value: 101},
		{name: "gitcoin negative", gitcoin: -1, solana: 50, field: "gitcoin_score", value: -1},
		{name: "solana above ceiling", gitcoin: 50, solana: 200, field: "solana_score", value: 200},
		{name: "solana negative", gitcoin: 50, solana: -7, field: "solana_score", value: -7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ml := &MockLedger{}
			manager := NewLifecycleManager(ml, testLogger())

			_, err := manager.ApplyUpdate(context.Background(), testWallet, tt.gitcoin, tt.solana)

			var is *utils.InvalidScoreError
			require.ErrorAs(t, err, &is)
			assert.Equal(t, tt.field, is.Field)
			assert.Equal(t, tt.value, is.Value)
			// Rejected before any ledger traffic.
			ml.AssertNotCalled(t, "UpdateScore", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestApplyUpdateAcceptsRangeBoundaries(t *testing.T) {
	mem := NewMemoryLedger(testAuthority, testAuthority)
	manager := NewLifecycleManager(mem, testLogger())

	_, err := manager.EnsureInitialized(context.Background(), testWallet)
	require.NoError(t, err)

	receipt, err := manager.ApplyUpdate(context.Background(), testWallet, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), receipt.Account.TotalScore)

	receipt, err = manager.ApplyUpdate(context.Background(), testWallet, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), receipt.Account.TotalScore)
}

func TestApplyUpdateUnauthorizedLeavesRecordUntouched(t *testing.T) {
	authority := NewMemoryLedger(testAuthority, testAuthority)
	manager := NewLifecycleManager(authority, testLogger())

	_, err := manager.EnsureInitialized(context.Background(), testWallet)
	require.NoError(t, err)
	_, err = manager.ApplyUpdate(context.Background(), testWallet, 40, 40)
	require.NoError(t, err)

	// Same store, different signer.
	imposter := authority.WithCaller("SomeOtherWa11etxxxxxxxxxxxxxxxxxxxxxxxxxxxx")
	imposterManager := NewLifecycleManager(imposter, testLogger())

	_, err = imposterManager.ApplyUpdate(context.Background(), testWallet, 99, 99)
	assert.ErrorIs(t, err, utils.ErrUnauthorized)

	record, err := authority.GetUserScore(context.Background(), testWallet)
	require.NoError(t, err)
	assert.Equal(t, 40, record.GitcoinScore)
	assert.Equal(t, 40, record.SolanaScore)
}

func TestFetchAbsentAccount(t *testing.T) {
	mem := NewMemoryLedger(testAuthority, testAuthority)
	manager := NewLifecycleManager(mem, testLogger())

	_, err := manager.Fetch(context.Background(), testWallet)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, StateAbsent, StateOf(nil))
	assert.Equal(t, StateInitialized, StateOf(&models.AccountRecord{Owner: testWallet}))
	assert.Equal(t, StateUpdated, StateOf(&models.AccountRecord{Owner: testWallet, GitcoinScore: 1, TotalScore: 50}))
	assert.Equal(t, StateUpdated, StateOf(&models.AccountRecord{Owner: testWallet, SolanaScore: 3, TotalScore: 150}))
}
