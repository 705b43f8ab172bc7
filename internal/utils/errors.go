package utils

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced verbatim from the ledger layer.
var (
	// ErrUnauthorized indicates a score write attempted by a caller other
	// than the program's designated authority. The record is left untouched.
	ErrUnauthorized = errors.New("unauthorized: only the authority wallet can update scores")

	// ErrNotFound indicates a read of a wallet that has no reputation
	// account yet. Distinguished from transport failures.
	ErrNotFound = errors.New("reputation account not found")
)

// InvalidWalletError represents a malformed wallet address, rejected
// before any network call is made.
type InvalidWalletError struct {
	Wallet string
}

func (e *InvalidWalletError) Error() string {
	return fmt.Sprintf("invalid wallet address: %q", e.Wallet)
}

// NewInvalidWalletError creates an InvalidWalletError for the given address.
func NewInvalidWalletError(wallet string) error {
	return &InvalidWalletError{Wallet: wallet}
}

// InvalidScoreError represents a component score outside [0,100] presented
// to the ledger write path. Field identifies which score failed.
type InvalidScoreError struct {
	Field string
	Value int
}

func (e *InvalidScoreError) Error() string {
	return fmt.Sprintf("invalid %s: %d is outside [0,100]", e.Field, e.Value)
}

// NewInvalidScoreError creates an InvalidScoreError for a named score field.
func NewInvalidScoreError(field string, value int) error {
	return &InvalidScoreError{Field: field, Value: value}
}

// LedgerUnavailableError wraps a transient failure contacting the on-chain
// program for a read, create or update. Not retried automatically.
type LedgerUnavailableError struct {
	Op  string
	Err error
}

func (e *LedgerUnavailableError) Error() string {
	return fmt.Sprintf("ledger unavailable during %s: %v", e.Op, e.Err)
}

func (e *LedgerUnavailableError) Unwrap() error {
	return e.Err
}

// NewLedgerUnavailableError wraps err as a LedgerUnavailableError for
// operation op.
func NewLedgerUnavailableError(op string, err error) error {
	return &LedgerUnavailableError{Op: op, Err: err}
}

// IsLedgerUnavailable reports whether err is a LedgerUnavailableError.
func IsLedgerUnavailable(err error) bool {
	var lu *LedgerUnavailableError
	return errors.As(err, &lu)
}
