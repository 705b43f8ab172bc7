package services

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/reputesol/reputesol-go/internal/models"
)

// SignalAggregator fans out to every datasource concurrently and joins on
// all of them settling. Because each source is contractually non-failing,
// the join degrades to a conservative score instead of failing the request:
// one slow or broken source never blocks or voids the other.
type SignalAggregator struct {
	gitcoin SignalSource
	solana  SignalSource
	logger  *logrus.Logger
}

var _ SignalAggregatorInterface = (*SignalAggregator)(nil)

// NewSignalAggregator creates the aggregator over the two datasources.
func NewSignalAggregator(gitcoin, solana SignalSource, logger *logrus.Logger) *SignalAggregator {
	return &SignalAggregator{
		gitcoin: gitcoin,
		solana:  solana,
		logger:  logger,
	}
}

// Aggregate fetches both signals in parallel and combines them. The
// component scores are the normalized scores, already integral and clamped
// to [0,100]; the weighted total is the program's job.
func (a *SignalAggregator) Aggregate(ctx context.Context, wallet string) models.AggregatedScore {
	var (
		wg            sync.WaitGroup
		gitcoinSignal models.Signal
		solanaSignal  models.Signal
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		gitcoinSignal = a.gitcoin.Fetch(ctx, wallet)
	}()
	go func() {
		defer wg.Done()
		solanaSignal = a.solana.Fetch(ctx, wallet)
	}()
	wg.Wait()

	a.logger.WithFields(logrus.Fields{
		"wallet":        wallet,
		"gitcoin_score": gitcoinSignal.NormalizedScore,
		"solana_score":  solanaSignal.NormalizedScore,
	}).Info("Aggregated reputation signals")

	return models.AggregatedScore{
		Gitcoin:      gitcoinSignal,
		Solana:       solanaSignal,
		GitcoinScore: gitcoinSignal.NormalizedScore,
		SolanaScore:  solanaSignal.NormalizedScore,
	}
}
