package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/reputesol/reputesol-go/internal/config"
	"github.com/reputesol/reputesol-go/internal/models"
	"github.com/reputesol/reputesol-go/internal/utils"
)

// Client talks to the program gateway, the sidecar that holds the Anchor
// client and the authority keypair and submits reputation-program
// transactions on our behalf.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	authority  string
}

var _ Ledger = (*Client)(nil)

// NewClient creates a new gateway client from configuration.
func NewClient(cfg *config.LedgerConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		BaseURL:   strings.TrimSuffix(cfg.ServiceURL, "/"),
		authority: cfg.Authority,
	}
}

// InitializeUser creates the reputation account PDA for a wallet.
func (c *Client) InitializeUser(ctx context.Context, wallet string) (*InitializeResponse, error) {
	var response InitializeResponse
	err := c.makeRequest(ctx, http.MethodPost, "/program/initialize",
		&InitializeRequest{Wallet: wallet}, &response, "initialize")
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// UpdateScore submits an authority-signed update_score instruction.
func (c *Client) UpdateScore(ctx context.Context, wallet string, gitcoinScore, solanaScore int) (*UpdateScoreResponse, error) {
	req := &UpdateScoreRequest{
		Wallet:       wallet,
		Authority:    c.authority,
		GitcoinScore: gitcoinScore,
		SolanaScore:  solanaScore,
	}
	var response UpdateScoreResponse
	err := c.makeRequest(ctx, http.MethodPost, "/program/update-score", req, &response, "update")
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// GetUserScore fetches the account record at the wallet's PDA.
func (c *Client) GetUserScore(ctx context.Context, wallet string) (*models.AccountRecord, error) {
	path := fmt.Sprintf("/program/score/%s", wallet)
	var response AccountResponse
	err := c.makeRequest(ctx, http.MethodGet, path, nil, &response, "fetch")
	if err != nil {
		return nil, err
	}
	return &response.Account, nil
}

// HealthCheck probes the gateway.
func (c *Client) HealthCheck(ctx context.Context) error {
	var response HealthResponse
	return c.makeRequest(ctx, http.MethodGet, "/health", nil, &response, "health")
}

// makeRequest performs one gateway call and maps error responses onto the
// ledger error taxonomy.
func (c *Client) makeRequest(ctx context.Context, method, path string, body, result interface{}, op string) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return utils.NewLedgerUnavailableError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return utils.NewLedgerUnavailableError(op, err)
	}

	if resp.StatusCode >= 400 {
		return c.mapError(op, resp.StatusCode, respBody)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return utils.NewLedgerUnavailableError(op, fmt.Errorf("failed to unmarshal response: %w", err))
		}
	}
	return nil
}

// mapError converts a gateway error payload into the typed errors callers
// are expected to branch on.
func (c *Client) mapError(op string, status int, body []byte) error {
	var errResp ErrorResponse
	_ = json.Unmarshal(body, &errResp)

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return utils.ErrUnauthorized
	case http.StatusNotFound:
		return utils.ErrNotFound
	case http.StatusConflict:
		return ErrAccountExists
	case http.StatusBadRequest:
		if errResp.Code == "InvalidScore" && errResp.Field != "" {
			return utils.NewInvalidScoreError(errResp.Field, errResp.Value)
		}
		if errResp.Error != "" {
			return utils.NewLedgerUnavailableError(op, fmt.Errorf("gateway rejected request: %s", errResp.Error))
		}
	}

	message := errResp.Error
	if message == "" {
		message = string(body)
	}
	return utils.NewLedgerUnavailableError(op, fmt.Errorf("gateway error (%d): %s", status, message))
}
