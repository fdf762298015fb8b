package payfast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ManuelReschke/PayFox/internal/pkg/env"
)

const (
	defaultAPIBaseURL = "https://api.payfast.co.za"
	apiVersion        = "v1"

	// The subscriptions API wants a local-offset timestamp without a colon
	// in the zone, e.g. 2024-05-01T12:34:56+0200.
	apiTimestampLayout = "2006-01-02T15:04:05-0700"
)

// ErrProviderRejected marks a response where the provider answered but
// refused the request. Callers must not touch local state when they see it.
var ErrProviderRejected = errors.New("provider rejected the request")

// Client talks to the PayFast subscriptions management API.
type Client struct {
	MerchantID string
	Passphrase string
	APIBaseURL string
	Sandbox    bool

	HTTPClient *http.Client

	// now is swappable for deterministic header tests.
	now func() time.Time
}

// NewClientFromEnv builds a client from merchant environment configuration.
func NewClientFromEnv() *Client {
	return &Client{
		MerchantID: strings.TrimSpace(env.GetEnv("PAYFAST_MERCHANT_ID", "")),
		Passphrase: env.GetEnv("PAYFAST_PASSPHRASE", ""),
		APIBaseURL: strings.TrimRight(env.GetEnv("PAYFAST_API_BASE_URL", defaultAPIBaseURL), "/"),
		Sandbox:    env.IsSandbox(),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
}

// AuthHeaders builds the signed header set for an API call. The headers are
// run through the same signature engine as body fields.
func (c *Client) AuthHeaders() map[string]string {
	headers := map[string]string{
		"merchant-id": c.MerchantID,
		"version":     apiVersion,
		"timestamp":   c.timestamp(),
	}
	headers["signature"] = Sign(FieldsFromMap(headers), c.Passphrase)
	return headers
}

func (c *Client) timestamp() string {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	return now().Format(apiTimestampLayout)
}

type apiResponse struct {
	Code   json.Number `json:"code"`
	Status string      `json:"status"`
	Data   struct {
		Response json.RawMessage `json:"response"`
		Message  string          `json:"message"`
	} `json:"data"`
}

// CancelSubscription issues the authenticated cancel call for a recurring
// billing token. Any non-success HTTP status, and any success status whose
// body reports failure, surfaces as ErrProviderRejected.
func (c *Client) CancelSubscription(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("cancel token is required")
	}
	if c.MerchantID == "" {
		return &ConfigError{Missing: "PAYFAST_MERCHANT_ID"}
	}

	endpoint := fmt.Sprintf("%s/subscriptions/%s/cancel", strings.TrimRight(c.APIBaseURL, "/"), token)
	if c.Sandbox {
		endpoint += "?testing=true"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, nil)
	if err != nil {
		return err
	}
	for k, v := range c.AuthHeaders() {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("payfast cancel request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status=%d body=%s", ErrProviderRejected, resp.StatusCode, string(body))
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("payfast cancel response unreadable: %w", err)
	}
	if !strings.EqualFold(strings.TrimSpace(parsed.Status), "success") {
		return fmt.Errorf("%w: status=%q message=%q", ErrProviderRejected, parsed.Status, parsed.Data.Message)
	}

	return nil
}
