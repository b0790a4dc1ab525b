// Package entityapi is the HTTP JSON client for the auth, organization and
// identity endpoints.
package entityapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/entityauth/entitykit/internal/domain"
)

const (
	maxResponseBytes      = 1 << 20
	defaultRequestTimeout = 30 * time.Second
	tenantHeader          = "X-Tenant-ID"
)

type Config struct {
	BaseURL        string
	TenantID       string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

// Client holds the transport shared by Auth, Organizations and Identity.
type Client struct {
	baseURL        string
	tenantID       string
	httpClient     *http.Client
	requestTimeout time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	if _, err := buildAPIURL(cfg.BaseURL, "/"); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &Client{
		baseURL:        cfg.BaseURL,
		tenantID:       strings.TrimSpace(cfg.TenantID),
		httpClient:     httpClient,
		requestTimeout: timeout,
	}, nil
}

func (c *Client) Auth() *Auth {
	return &Auth{client: c}
}

func (c *Client) Organizations() *Organizations {
	return &Organizations{client: c}
}

func (c *Client) Identity() *Identity {
	return &Identity{client: c}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do sends body as JSON and decodes a 2xx response into out when out is not
// nil. Non-2xx responses become *domain.NetworkError.
func (c *Client) do(ctx context.Context, method string, path string, accessToken string, body any, out any) error {
	endpoint, err := buildAPIURL(c.baseURL, path)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	if c.tenantID != "" {
		req.Header.Set(tenantHeader, c.tenantID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	limited := io.LimitReader(resp.Body, maxResponseBytes)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp.StatusCode, limited)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, limited)
		return nil
	}

	if err := json.NewDecoder(limited).Decode(out); err != nil {
		return &domain.DecodingError{What: path + " response", Err: err}
	}

	return nil
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, c.requestTimeout)
}

func decodeError(status int, body io.Reader) error {
	raw, _ := io.ReadAll(body)

	var payload errorResponse
	if err := json.Unmarshal(raw, &payload); err == nil {
		message := payload.Message
		if message == "" {
			message = payload.Error
		}
		return &domain.NetworkError{Status: status, Message: message}
	}

	return &domain.NetworkError{Status: status, Message: strings.TrimSpace(string(raw))}
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}
	if path == "" {
		return "", errors.New("api path is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	// Keep any path prefix on the base URL, such as /v1.
	parsed.Path = strings.TrimRight(parsed.Path, "/") + "/" + strings.TrimLeft(path, "/")
	return parsed.String(), nil
}
