package crm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrStatus is returned for non-2xx responses. Only 5xx are retried.
type ErrStatus struct {
	Code int
	Body string
}

func (e *ErrStatus) Error() string {
	return fmt.Sprintf("crm API error %d: %s", e.Code, e.Body)
}

// Client is the HTTP wrapper for the client-management REST API.
type Client struct {
	baseURL       string
	apiKey        string
	maxRetries    int
	retryInterval time.Duration
	httpClient    *http.Client
}

// NewClient creates a new CRM client. Zero values in cfg take the package defaults.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("crm: base URL is required")
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = DefaultRetryInterval
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = newHTTPClient(cfg.ConnectTimeout, cfg.ReadTimeout)
	}

	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:        cfg.APIKey,
		maxRetries:    cfg.MaxRetries,
		retryInterval: cfg.RetryInterval,
		httpClient:    cfg.HTTPClient,
	}, nil
}

// newHTTPClient bounds the dial separately from waiting on the response.
func newHTTPClient(connect, read time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: connect}).DialContext
	transport.TLSHandshakeTimeout = connect
	transport.ResponseHeaderTimeout = read
	return &http.Client{
		Transport: transport,
		Timeout:   connect + read,
	}
}

// GetUserByPhone fetches the client record for phone via
// POST /api/v1/client/user-client/by-phone/{phone}.
func (c *Client) GetUserByPhone(ctx context.Context, phone string) (User, error) {
	endpoint := fmt.Sprintf("%s/api/v1/client/user-client/by-phone/%s", c.baseURL, url.PathEscape(phone))

	raw, err := c.post(ctx, endpoint)
	if err != nil {
		return User{}, fmt.Errorf("get user by phone: %w", err)
	}

	user, err := decodeUser(raw)
	if err != nil {
		return User{}, fmt.Errorf("get user by phone: %w", err)
	}
	return user, nil
}

// AddHandoffLabel marks the conversation for human follow-up via
// POST /api/v1/client/user-client/by-dify-conversation-id/{id}/chatwoot-label.
func (c *Client) AddHandoffLabel(ctx context.Context, conversationID string) error {
	endpoint := fmt.Sprintf("%s/api/v1/client/user-client/by-dify-conversation-id/%s/chatwoot-label",
		c.baseURL, url.PathEscape(conversationID))

	if _, err := c.post(ctx, endpoint); err != nil {
		return fmt.Errorf("add handoff label: %w", err)
	}
	return nil
}

// post sends an empty-body POST, retrying network errors and 5xx with linear backoff.
func (c *Client) post(ctx context.Context, endpoint string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * c.retryInterval):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, err := c.doPost(ctx, endpoint)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !retryable(err) || ctx.Err() != nil {
			break
		}
	}

	return nil, lastErr
}

func (c *Client) doPost(ctx context.Context, endpoint string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call crm API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read crm response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ErrStatus{Code: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

func retryable(err error) bool {
	var statusErr *ErrStatus
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500
	}
	return true
}

// decodeUser coerces a loosely typed payload into User.
func decodeUser(raw []byte) (User, error) {
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()

	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return User{}, fmt.Errorf("failed to decode user: %w", err)
	}

	return User{
		ID:       toInt(data["id"]),
		Phone:    toString(data["phone"]),
		Name:     toString(data["name"]),
		Empresa:  toString(data["empresa"]),
		CBIntent: toString(data["cb_intent"]),
	}, nil
}

func toInt(v any) int {
	n, ok := v.(json.Number)
	if !ok {
		return 0
	}
	i, err := strconv.Atoi(n.String())
	if err != nil {
		return 0
	}
	return i
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
