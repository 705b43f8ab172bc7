package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reputesol/reputesol-go/internal/database"
	"github.com/reputesol/reputesol-go/internal/utils"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *database.RedisClient) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	return server, &database.RedisClient{Client: client}
}

func seededLedger(t *testing.T, gitcoinScore, solanaScore int) *MemoryLedger {
	t.Helper()
	mem := NewMemoryLedger(testAuthority, testAuthority)
	_, err := mem.InitializeUser(context.Background(), testWallet)
	require.NoError(t, err)
	_, err = mem.UpdateScore(context.Background(), testWallet, gitcoinScore, solanaScore)
	require.NoError(t, err)
	return mem
}

func TestReadReturnsRecord(t *testing.T) {
	mem := seededLedger(t, 75, 60)
	reader := NewScoreReader(NewLifecycleManager(mem, testLogger()), nil, 0, testLogger())

	record, err := reader.Read(context.Background(), testWallet)
	require.NoError(t, err)
	assert.Equal(t, testWallet, record.Owner)
	assert.Equal(t, 75, record.GitcoinScore)
	assert.Equal(t, 60, record.SolanaScore)
	assert.Equal(t, int64(6750), record.TotalScore)
}

func TestReadUninitializedWallet(t *testing.T) {
	mem := NewMemoryLedger(testAuthority, testAuthority)
	reader := NewScoreReader(NewLifecycleManager(mem, testLogger()), nil, 0, testLogger())

	_, err := reader.Read(context.Background(), testWallet)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestReadRejectsInvalidWallet(t *testing.T) {
	mem := NewMemoryLedger(testAuthority, testAuthority)
	reader := NewScoreReader(NewLifecycleManager(mem, testLogger()), nil, 0, testLogger())

	_, err := reader.Read(context.Background(), "bogus")

	var iw *utils.InvalidWalletError
	assert.ErrorAs(t, err, &iw)
}

func TestReadCachesRecord(t *testing.T) {
	server, redisClient := newTestRedis(t)
	mem := seededLedger(t, 50, 50)
	reader := NewScoreReader(NewLifecycleManager(mem, testLogger()), redisClient, 10*time.Second, testLogger())

	record, err := reader.Read(context.Background(), testWallet)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), record.TotalScore)
	assert.True(t, server.Exists("score:"+testWallet))

	// Second read is served from cache: change the chain state underneath
	// and the cached value still comes back until the TTL lapses.
	_, err = mem.UpdateScore(context.Background(), testWallet, 90, 90)
	require.NoError(t, err)

	cached, err := reader.Read(context.Background(), testWallet)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), cached.TotalScore)

	server.FastForward(11 * time.Second)

	fresh, err := reader.Read(context.Background(), testWallet)
	require.NoError(t, err)
	assert.Equal(t, int64(9000), fresh.TotalScore)
}

func TestReadDoesNotCacheAbsentRecords(t *testing.T) {
	server, redisClient := newTestRedis(t)
	mem := NewMemoryLedger(testAuthority, testAuthority)
	reader := NewScoreReader(NewLifecycleManager(mem, testLogger()), redisClient, 10*time.Second, testLogger())

	_, err := reader.Read(context.Background(), testWallet)
	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.False(t, server.Exists("score:"+testWallet))
}

func TestReadToleratesCorruptCacheEntry(t *testing.T) {
	server, redisClient := newTestRedis(t)
	mem := seededLedger(t, 20, 30)
	reader := NewScoreReader(NewLifecycleManager(mem, testLogger()), redisClient, 10*time.Second, testLogger())

	require.NoError(t, server.Set("score:"+testWallet, "{not json"))

	record, err := reader.Read(context.Background(), testWallet)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), record.TotalScore)
}
