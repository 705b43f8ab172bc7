package gitcoin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/reputesol/reputesol-go/internal/config"
)

// Client is a thin HTTP client for the Gitcoin Passport scorer registry.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	apiKey     string
	scorerID   string
}

// NewClient creates a new scorer client from configuration.
func NewClient(cfg *config.GitcoinConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		BaseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		scorerID: cfg.ScorerID,
	}
}

// GetScore retrieves the passport score for a wallet. A 404 is returned as
// an *APIError recognizable via IsNotFound; callers treat it as "no
// passport", not a transport failure.
func (c *Client) GetScore(ctx context.Context, wallet string) (*ScoreResponse, error) {
	path := fmt.Sprintf("/registry/score/%s/%s", c.scorerID, wallet)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach gitcoin scorer: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp ScoreResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	var score ScoreResponse
	if err := json.Unmarshal(respBody, &score); err != nil {
		return nil, fmt.Errorf("failed to unmarshal score response: %w", err)
	}

	return &score, nil
}
