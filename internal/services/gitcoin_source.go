package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/reputesol/reputesol-go/internal/config"
	"github.com/reputesol/reputesol-go/internal/metrics"
	"github.com/reputesol/reputesol-go/internal/models"
	"github.com/reputesol/reputesol-go/pkg/gitcoin"
)

// GitcoinSource fetches the Gitcoin Passport score for a wallet. Passport
// is a sybil-resistance tool; the score is already on a 0-100 scale.
//
// Missing credentials are a constructor-time fact: the source is built in
// a disabled state and always returns the disabled-zero Signal, instead of
// checking the environment on every fetch.
type GitcoinSource struct {
	client  *gitcoin.Client
	enabled bool
	logger  *logrus.Logger
}

var _ SignalSource = (*GitcoinSource)(nil)

// NewGitcoinSource creates the identity datasource. With no API key or
// scorer ID configured the source is disabled, not broken.
func NewGitcoinSource(cfg *config.GitcoinConfig, logger *logrus.Logger) *GitcoinSource {
	if !cfg.Enabled() {
		logger.Warn("Gitcoin API key not configured, datasource disabled")
		return &GitcoinSource{enabled: false, logger: logger}
	}
	return &GitcoinSource{
		client:  gitcoin.NewClient(cfg),
		enabled: true,
		logger:  logger,
	}
}

// Source identifies this datasource.
func (s *GitcoinSource) Source() models.SignalSource {
	return models.SourceGitcoin
}

// Fetch retrieves the passport score. Never returns an error: failures
// become zero-valued Signals so a broken scorer cannot sink an update run.
func (s *GitcoinSource) Fetch(ctx context.Context, wallet string) models.Signal {
	if !s.enabled {
		metrics.SourceFetches.WithLabelValues(string(models.SourceGitcoin), "disabled").Inc()
		return models.ErrorSignal(models.SourceGitcoin, "API key not configured")
	}

	resp, err := s.client.GetScore(ctx, wallet)
	if err != nil {
		// No passport is a legitimate zero, not a fetch failure.
		if gitcoin.IsNotFound(err) {
			metrics.SourceFetches.WithLabelValues(string(models.SourceGitcoin), "no_passport").Inc()
			return models.Signal{
				Source:          models.SourceGitcoin,
				NormalizedScore: 0,
				Metadata: map[string]interface{}{
					"no_passport": true,
					"detail":      "no Gitcoin Passport found for this wallet",
				},
				FetchedAt: time.Now().UTC(),
			}
		}

		s.logger.WithError(err).WithField("wallet", wallet).Error("Failed to fetch Gitcoin score")
		metrics.SourceFetches.WithLabelValues(string(models.SourceGitcoin), "error").Inc()
		return models.ErrorSignal(models.SourceGitcoin, "failed to fetch Gitcoin data")
	}

	signal := models.Signal{
		Source:          models.SourceGitcoin,
		RawScore:        resp.Score,
		NormalizedScore: models.NormalizeScore(resp.Score),
		Metadata: map[string]interface{}{
			"passport_address": resp.Address,
			"status":           resp.Status,
		},
		FetchedAt: time.Now().UTC(),
	}
	if resp.Evidence != nil {
		signal.Metadata["stamp_score"] = resp.Evidence.RawScore.String()
		signal.Metadata["threshold"] = resp.Evidence.Threshold.String()
	}

	metrics.SourceFetches.WithLabelValues(string(models.SourceGitcoin), "ok").Inc()
	return signal
}
