package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/reputesol/reputesol-go/internal/models"
)

// DatabasePool defines the interface for database pool operations.
// This interface allows for both real pool and mock pool implementations.
type DatabasePool interface {
	// QueryRow executes a query that is expected to return at most one row.
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	// Exec executes a query without returning any rows.
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	// Query executes a query that returns rows.
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// HistoryRepository persists score aggregation runs. The on-chain record
// only keeps the latest scores; this table backs the score-over-time view.
type HistoryRepository struct {
	pool DatabasePool
}

// NewHistoryRepository creates a new history repository.
func NewHistoryRepository(pool DatabasePool) *HistoryRepository {
	return &HistoryRepository{
		pool: pool,
	}
}

// EnsureSchema creates the score_history table if it does not exist.
func (r *HistoryRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS score_history (
			id BIGSERIAL PRIMARY KEY,
			run_id TEXT NOT NULL,
			wallet TEXT NOT NULL,
			gitcoin_score INT NOT NULL,
			solana_score INT NOT NULL,
			total_score BIGINT NOT NULL,
			breakdown JSONB,
			transaction TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_score_history_wallet_created
			ON score_history (wallet, created_at DESC);
	`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure score_history schema: %w", err)
	}
	return nil
}

// RecordRun inserts one aggregation run.
func (r *HistoryRepository) RecordRun(ctx context.Context, entry *models.ScoreHistoryEntry) error {
	breakdown, err := json.Marshal(entry.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal breakdown: %w", err)
	}

	query := `
		INSERT INTO score_history (run_id, wallet, gitcoin_score, solana_score, total_score, breakdown, transaction)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err = r.pool.QueryRow(ctx, query,
		entry.RunID,
		entry.Wallet,
		entry.GitcoinScore,
		entry.SolanaScore,
		entry.TotalScore,
		breakdown,
		entry.Transaction,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record score history: %w", err)
	}

	return nil
}

// ListByWallet returns the most recent runs for a wallet, newest first.
func (r *HistoryRepository) ListByWallet(ctx context.Context, wallet string, limit int) ([]models.ScoreHistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, run_id, wallet, gitcoin_score, solana_score, total_score, breakdown, transaction, created_at
		FROM score_history
		WHERE wallet = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, wallet, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query score history: %w", err)
	}
	defer rows.Close()

	var entries []models.ScoreHistoryEntry
	for rows.Next() {
		var entry models.ScoreHistoryEntry
		var breakdown []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.RunID,
			&entry.Wallet,
			&entry.GitcoinScore,
			&entry.SolanaScore,
			&entry.TotalScore,
			&breakdown,
			&entry.Transaction,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan score history row: %w", err)
		}
		if len(breakdown) > 0 {
			if err := json.Unmarshal(breakdown, &entry.Breakdown); err != nil {
				return nil, fmt.Errorf("failed to unmarshal breakdown: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate score history rows: %w", err)
	}

	return entries, nil
}
