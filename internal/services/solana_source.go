package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/reputesol/reputesol-go/internal/config"
	"github.com/reputesol/reputesol-go/internal/metrics"
	"github.com/reputesol/reputesol-go/internal/models"
	"github.com/reputesol/reputesol-go/pkg/solrpc"
)

// Activity scoring caps. Each observed metric maps to a bounded point
// range; the three ranges sum to 100.
var (
	daysPerYear     = decimal.NewFromInt(365)
	agePointsCap    = decimal.NewFromInt(30)
	txWindow        = decimal.NewFromInt(1000)
	txPointsCap     = decimal.NewFromInt(40)
	balanceDivisor  = decimal.NewFromInt(10)
	balancePointCap = decimal.NewFromInt(30)
)

// SolanaSource derives an activity score from on-chain wallet metrics:
// account age, recent transaction count and SOL balance. Token holdings
// are collected for the metadata breakdown only.
type SolanaSource struct {
	client         *solrpc.Client
	lookback       int
	tokenProgramID string
	logger         *logrus.Logger
}

var _ SignalSource = (*SolanaSource)(nil)

// NewSolanaSource creates the on-chain activity datasource.
func NewSolanaSource(cfg *config.SolanaConfig, logger *logrus.Logger) *SolanaSource {
	lookback := cfg.SignatureLookback
	if lookback <= 0 {
		lookback = 1000
	}
	return &SolanaSource{
		client:         solrpc.NewClient(cfg),
		lookback:       lookback,
		tokenProgramID: cfg.TokenProgramID,
		logger:         logger,
	}
}

// Source identifies this datasource.
func (s *SolanaSource) Source() models.SignalSource {
	return models.SourceSolana
}

// Fetch collects the wallet's on-chain metrics and maps them onto the
// activity formula. Never returns an error: any RPC failure collapses to
// the zero-valued fallback Signal.
func (s *SolanaSource) Fetch(ctx context.Context, wallet string) models.Signal {
	signatures, err := s.client.GetSignaturesForAddress(ctx, wallet, s.lookback)
	if err != nil {
		return s.failed(wallet, err)
	}
	txCount := len(signatures)

	// Account age is measured from the oldest signature in the lookback
	// window; signatures arrive newest first.
	ageDays := decimal.Zero
	if txCount > 0 {
		oldest := signatures[txCount-1]
		if oldest.BlockTime != nil {
			elapsed := time.Since(time.Unix(*oldest.BlockTime, 0))
			ageDays = decimal.NewFromFloat(elapsed.Hours() / 24)
		}
	}

	lamports, err := s.client.GetBalance(ctx, wallet)
	if err != nil {
		return s.failed(wallet, err)
	}
	solBalance := decimal.NewFromUint64(lamports).Div(decimal.NewFromInt(solrpc.LamportsPerSol))

	tokenAccounts, err := s.client.GetTokenAccountsByOwner(ctx, wallet, s.tokenProgramID)
	if err != nil {
		return s.failed(wallet, err)
	}

	ageScore := cappedComponent(ageDays, daysPerYear, agePointsCap)
	txScore := cappedComponent(decimal.NewFromInt(int64(txCount)), txWindow, txPointsCap)
	balanceScore := cappedComponent(solBalance, balanceDivisor, balancePointCap)
	rawScore := ageScore.Add(txScore).Add(balanceScore)

	metrics.SourceFetches.WithLabelValues(string(models.SourceSolana), "ok").Inc()
	return models.Signal{
		Source:          models.SourceSolana,
		RawScore:        rawScore,
		NormalizedScore: models.NormalizeScore(rawScore),
		Metadata: map[string]interface{}{
			"account_age_days":  ageDays.Round(0).IntPart(),
			"transaction_count": txCount,
			"sol_balance":       solBalance.StringFixed(4),
			"token_accounts":    len(tokenAccounts),
			"breakdown": map[string]interface{}{
				"age_score":     ageScore.StringFixed(2),
				"tx_score":      txScore.StringFixed(2),
				"balance_score": balanceScore.StringFixed(2),
			},
		},
		FetchedAt: time.Now().UTC(),
	}
}

func (s *SolanaSource) failed(wallet string, err error) models.Signal {
	s.logger.WithError(err).WithField("wallet", wallet).Error("Failed to fetch Solana metrics")
	metrics.SourceFetches.WithLabelValues(string(models.SourceSolana), "error").Inc()
	return models.ErrorSignal(models.SourceSolana, "failed to fetch Solana data")
}

// cappedComponent scales value/divisor onto [0,cap] points.
func cappedComponent(value, divisor, cap decimal.Decimal) decimal.Decimal {
	points := value.Div(divisor).Mul(cap)
	if points.GreaterThan(cap) {
		return cap
	}
	if points.IsNegative() {
		return decimal.Zero
	}
	return points
}
