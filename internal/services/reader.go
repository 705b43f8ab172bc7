package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/reputesol/reputesol-go/internal/database"
	"github.com/reputesol/reputesol-go/internal/models"
	"github.com/reputesol/reputesol-go/internal/utils"
)

// ScoreReader is the read-only projection of the on-chain record for
// display collaborators. It sits apart from the write path and caches
// records briefly in Redis so dashboard polling does not hammer the chain.
type ScoreReader struct {
	lifecycle *LifecycleManager
	redis     *database.RedisClient
	ttl       time.Duration
	logger    *logrus.Logger
}

var _ ScoreReaderInterface = (*ScoreReader)(nil)

// NewScoreReader creates the reader. redis may be nil to disable caching.
func NewScoreReader(lifecycle *LifecycleManager, redis *database.RedisClient, ttl time.Duration, logger *logrus.Logger) *ScoreReader {
	return &ScoreReader{
		lifecycle: lifecycle,
		redis:     redis,
		ttl:       ttl,
		logger:    logger,
	}
}

// Read returns the wallet's current account record. utils.ErrNotFound for
// a wallet that was never initialized, distinguished from transport
// failures. Absent records are not cached.
func (r *ScoreReader) Read(ctx context.Context, wallet string) (*models.AccountRecord, error) {
	if err := utils.ValidateWalletAddress(wallet); err != nil {
		return nil, err
	}

	cacheKey := scoreCacheKey(wallet)
	if record, ok := r.cached(ctx, cacheKey); ok {
		return record, nil
	}

	record, err := r.lifecycle.Fetch(ctx, wallet)
	if err != nil {
		return nil, err
	}

	r.cache(ctx, cacheKey, record)
	return record, nil
}

func (r *ScoreReader) cached(ctx context.Context, key string) (*models.AccountRecord, bool) {
	if r.redis == nil {
		return nil, false
	}
	data, err := r.redis.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var record models.AccountRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		r.logger.WithError(err).Warn("Failed to unmarshal cached score")
		return nil, false
	}
	return &record, true
}

func (r *ScoreReader) cache(ctx context.Context, key string, record *models.AccountRecord) {
	if r.redis == nil {
		return
	}
	data, err := json.Marshal(record)
	if err != nil {
		r.logger.WithError(err).Warn("Failed to marshal score for caching")
		return
	}
	if err := r.redis.Set(ctx, key, string(data), r.ttl); err != nil {
		r.logger.WithError(err).Warn("Failed to cache score")
	}
}

func scoreCacheKey(wallet string) string {
	return fmt.Sprintf("score:%s", wallet)
}
