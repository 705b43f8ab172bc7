package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/reputesol/reputesol-go/internal/models"
	"github.com/reputesol/reputesol-go/internal/services"
	"github.com/reputesol/reputesol-go/internal/utils"
)

// HistoryLister lists recorded aggregation runs for a wallet.
type HistoryLister interface {
	ListByWallet(ctx context.Context, wallet string, limit int) ([]models.ScoreHistoryEntry, error)
}

// ScoreHandler serves the reputation score endpoints.
type ScoreHandler struct {
	reader       services.ScoreReaderInterface
	orchestrator services.OrchestratorInterface
	history      HistoryLister
	clusterTag   string
	logger       *logrus.Logger
}

// NewScoreHandler creates the score handler. history may be nil when run
// recording is disabled.
func NewScoreHandler(reader services.ScoreReaderInterface, orchestrator services.OrchestratorInterface, history HistoryLister, clusterTag string, logger *logrus.Logger) *ScoreHandler {
	return &ScoreHandler{
		reader:       reader,
		orchestrator: orchestrator,
		history:      history,
		clusterTag:   clusterTag,
		logger:       logger,
	}
}

// ScoreResponse is the projection of an account record for display.
type ScoreResponse struct {
	Wallet          string `json:"wallet"`
	TotalScore      int64  `json:"total_score"`
	GitcoinScore    int    `json:"gitcoin_score"`
	SolanaScore     int    `json:"solana_score"`
	LastUpdated     int64  `json:"last_updated"`
	LastUpdatedDate string `json:"last_updated_date"`
	State           string `json:"state"`
}

// UpdateScoreRequest triggers a full score refresh for a wallet.
type UpdateScoreRequest struct {
	Wallet string `json:"wallet" binding:"required"`
}

// UpdateScoreResponse confirms a committed update.
type UpdateScoreResponse struct {
	Success     bool                   `json:"success"`
	Transaction string                 `json:"transaction"`
	Scores      UpdateScores           `json:"scores"`
	Breakdown   models.AggregatedScore `json:"breakdown"`
	ExplorerURL string                 `json:"explorer_url"`
}

// UpdateScores is the score summary of an update response.
type UpdateScores struct {
	Gitcoin int   `json:"gitcoin"`
	Solana  int   `json:"solana"`
	Total   int64 `json:"total"`
}

// GetScore handles GET /api/v1/score/:wallet.
func (h *ScoreHandler) GetScore(c *gin.Context) {
	wallet := c.Param("wallet")

	record, err := h.reader.Read(c.Request.Context(), wallet)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"wallet":      wallet,
				"initialized": false,
				"message":     "Reputation account not found. POST /api/v1/score/update to initialize.",
			})
			return
		}
		h.respondError(c, wallet, err, "Failed to fetch score")
		return
	}

	c.JSON(http.StatusOK, ScoreResponse{
		Wallet:          record.Owner,
		TotalScore:      record.TotalScore,
		GitcoinScore:    record.GitcoinScore,
		SolanaScore:     record.SolanaScore,
		LastUpdated:     record.LastUpdated,
		LastUpdatedDate: record.LastUpdatedTime().Format(time.RFC3339),
		State:           string(services.StateOf(record)),
	})
}

// UpdateScore handles POST /api/v1/score/update.
func (h *ScoreHandler) UpdateScore(c *gin.Context) {
	var req UpdateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid wallet address"})
		return
	}

	result, err := h.orchestrator.Run(c.Request.Context(), req.Wallet)
	if err != nil {
		h.respondError(c, req.Wallet, err, "Failed to update score")
		return
	}

	c.JSON(http.StatusOK, UpdateScoreResponse{
		Success:     true,
		Transaction: result.Transaction,
		Scores: UpdateScores{
			Gitcoin: result.GitcoinScore,
			Solana:  result.SolanaScore,
			Total:   result.TotalScore,
		},
		Breakdown:   result.Breakdown,
		ExplorerURL: h.explorerURL(result.Transaction),
	})
}

// GetScoreHistory handles GET /api/v1/score/:wallet/history.
func (h *ScoreHandler) GetScoreHistory(c *gin.Context) {
	wallet := c.Param("wallet")
	if err := utils.ValidateWalletAddress(wallet); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if h.history == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Score history is not enabled"})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	entries, err := h.history.ListByWallet(c.Request.Context(), wallet, limit)
	if err != nil {
		h.logger.WithError(err).WithField("wallet", wallet).Error("Failed to list score history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch score history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wallet":  wallet,
		"history": entries,
		"total":   len(entries),
	})
}

// respondError maps pipeline errors onto HTTP statuses.
func (h *ScoreHandler) respondError(c *gin.Context, wallet string, err error, fallback string) {
	var invalidWallet *utils.InvalidWalletError
	var invalidScore *utils.InvalidScoreError

	switch {
	case errors.As(err, &invalidWallet), errors.As(err, &invalidScore):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case utils.IsLedgerUnavailable(err):
		h.logger.WithError(err).WithField("wallet", wallet).Error(fallback)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Ledger temporarily unavailable"})
	default:
		h.logger.WithError(err).WithField("wallet", wallet).Error(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func (h *ScoreHandler) explorerURL(transaction string) string {
	if transaction == "" {
		return ""
	}
	url := fmt.Sprintf("https://explorer.solana.com/tx/%s", transaction)
	if h.clusterTag != "" && h.clusterTag != "mainnet-beta" {
		url += "?cluster=" + h.clusterTag
	}
	return url
}
