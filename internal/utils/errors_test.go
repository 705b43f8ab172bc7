package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidScoreError(t *testing.T) {
	err := NewInvalidScoreError("gitcoin_score", 150)

	var is *InvalidScoreError
	assert.ErrorAs(t, err, &is)
	assert.Equal(t, "gitcoin_score", is.Field)
	assert.Equal(t, 150, is.Value)
	assert.Contains(t, err.Error(), "gitcoin_score")
	assert.Contains(t, err.Error(), "150")
}

func TestLedgerUnavailableError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewLedgerUnavailableError("update", cause)

	assert.True(t, IsLedgerUnavailable(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "update")

	// Detection survives wrapping.
	wrapped := fmt.Errorf("run failed: %w", err)
	assert.True(t, IsLedgerUnavailable(wrapped))
}

func TestIsLedgerUnavailableRejectsOtherErrors(t *testing.T) {
	assert.False(t, IsLedgerUnavailable(nil))
	assert.False(t, IsLedgerUnavailable(ErrNotFound))
	assert.False(t, IsLedgerUnavailable(ErrUnauthorized))
	assert.False(t, IsLedgerUnavailable(NewInvalidWalletError("x")))
}
