package openpayments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/merchbridge/payment-service/internal/domain/provider"
	"go.uber.org/zap"
)

const defaultRequestTimeout = 15 * time.Second

// Client calls the payee wallet's Open Payments style HTTP API.
type Client struct {
	client      *http.Client
	accessToken string
	logger      *zap.Logger
}

// NewClient creates a gateway client with a bounded request timeout.
func NewClient(accessToken string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		client:      &http.Client{Timeout: timeout},
		accessToken: accessToken,
		logger:      logger,
	}
}

type incomingAmount struct {
	Value      string `json:"value"`
	AssetCode  string `json:"assetCode"`
	AssetScale int    `json:"assetScale"`
}

type paymentMetadata struct {
	LocalID string `json:"localId"`
	Memo    string `json:"memo,omitempty"`
}

type incomingPaymentPayload struct {
	WalletAddress  string          `json:"walletAddress"`
	IncomingAmount incomingAmount  `json:"incomingAmount"`
	Metadata       paymentMetadata `json:"metadata"`
	ExpiresAt      string          `json:"expiresAt,omitempty"`
}

// CreateIncomingPayment posts a new incoming-payment resource to the wallet.
func (c *Client) CreateIncomingPayment(ctx context.Context, req *provider.CreateIncomingPaymentRequest) (*provider.RemoteResponse, error) {
	payload := incomingPaymentPayload{
		WalletAddress: req.WalletAddress,
		IncomingAmount: incomingAmount{
			Value:      req.AmountMinorUnits,
			AssetCode:  req.AssetCode,
			AssetScale: req.AssetScale,
		},
		Metadata: paymentMetadata{
			LocalID: req.LocalID,
			Memo:    req.Memo,
		},
	}
	if req.ExpiresAt != nil {
		payload.ExpiresAt = req.ExpiresAt.UTC().Format(time.RFC3339)
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal incoming payment payload: %w", err)
	}

	url := req.Endpoint + "/incoming-payments"
	c.logger.Info("Creating incoming payment",
		zap.String("url", url),
		zap.String("local_id", req.LocalID),
		zap.String("amount", req.AmountMinorUnits),
		zap.String("asset_code", req.AssetCode))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.setAuth(httpReq)

	return c.capture(httpReq)
}

// FetchResource GETs an incoming-payment resource representation.
func (c *Client) FetchResource(ctx context.Context, url string) (*provider.RemoteResponse, error) {
	c.logger.Debug("Fetching remote resource", zap.String("url", url))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	c.setAuth(httpReq)

	return c.capture(httpReq)
}

func (c *Client) setAuth(req *http.Request) {
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
}

// capture runs the request and folds every outcome, including transport
// failures, into a RemoteResponse.
func (c *Client) capture(req *http.Request) (*provider.RemoteResponse, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("Remote call failed",
			zap.String("url", req.URL.String()),
			zap.Error(err))
		return &provider.RemoteResponse{Err: err.Error()}, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("Failed to read remote response body",
			zap.String("url", req.URL.String()),
			zap.Error(err))
		return &provider.RemoteResponse{
			StatusCode: resp.StatusCode,
			Headers:    resp.Header,
			Err:        err.Error(),
		}, nil
	}

	out := &provider.RemoteResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       string(body),
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err == nil {
		out.JSON = parsed
	}

	c.logger.Info("Remote call completed",
		zap.String("url", req.URL.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Bool("json_body", out.JSON != nil))

	return out, nil
}
