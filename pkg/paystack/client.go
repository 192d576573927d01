package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chopnowhq/chopnow-backend/pkg/config"
	"github.com/chopnowhq/chopnow-backend/pkg/logger"
)

const defaultTimeout = 15 * time.Second

var errSecretKeyRequired = errors.New("paystack secret key is required")

// Client is a thin wrapper over Paystack's REST API. Only the transaction
// initialize call is needed; confirmation arrives via webhook.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

// NewClient validates the configured secrets and builds the HTTP client with
// a bounded timeout.
func NewClient(ctx context.Context, cfg config.Paystack, logg *logger.Logger) (*Client, error) {
	secretKey := strings.TrimSpace(cfg.SecretKey)
	if secretKey == "" {
		return nil, errSecretKeyRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}

	if logg != nil {
		logg.Info(ctx, "paystack client initialized")
	}

	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		http:      &http.Client{Timeout: timeout},
	}, nil
}

// SecretKey exposes the shared secret used for webhook signature checks.
func (c *Client) SecretKey() string {
	if c == nil {
		return ""
	}
	return c.secretKey
}

// InitializeRequest carries the fields Paystack needs to open a hosted
// checkout session. Amount is in the minor currency unit (kobo).
type InitializeRequest struct {
	Email       string         `json:"email"`
	AmountKobo  int64          `json:"amount"`
	Reference   string         `json:"reference"`
	CallbackURL string         `json:"callback_url,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// InitializeResponse is the subset of the provider response the API relays
// to the client.
type InitializeResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type initializeEnvelope struct {
	Status  bool               `json:"status"`
	Message string             `json:"message"`
	Data    InitializeResponse `json:"data"`
}

// InitializeTransaction opens a hosted payment session for the given
// reference and amount.
func (c *Client) InitializeTransaction(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	if req.Email == "" {
		return nil, errors.New("email is required")
	}
	if req.AmountKobo <= 0 {
		return nil, errors.New("amount must be positive")
	}
	if req.Reference == "" {
		return nil, errors.New("reference is required")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode initialize request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build initialize request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call paystack: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read paystack response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("paystack initialize returned %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var envelope initializeEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("decode paystack response: %w", err)
	}
	if !envelope.Status {
		return nil, fmt.Errorf("paystack initialize rejected: %s", envelope.Message)
	}

	return &envelope.Data, nil
}
