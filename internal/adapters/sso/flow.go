// Package sso signs a user in through the identity provider's authorization
// code flow with PKCE, receiving the redirect on a loopback address.
package sso

import (
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
	maxTokenResponseBytes = 1 << 20
	defaultRequestTimeout = 30 * time.Second

	authorizePath = "/sso/authorize"
	tokenPath     = "/sso/token"
)

type Config struct {
	BaseURL  string
	ClientID string
	TenantID string
	// Connection selects an enterprise connection at the provider. Optional.
	Connection     string
	ListenAddr     string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

type Flow struct {
	baseURL        string
	clientID       string
	tenantID       string
	connection     string
	listenAddr     string
	httpClient     *http.Client
	requestTimeout time.Duration
}

func NewFlow(cfg Config) (*Flow, error) {
	if _, err := endpointURL(cfg.BaseURL, authorizePath); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.ClientID) == "" {
		return nil, errors.New("sso client id is required")
	}

	flow := &Flow{
		baseURL:        cfg.BaseURL,
		clientID:       strings.TrimSpace(cfg.ClientID),
		tenantID:       strings.TrimSpace(cfg.TenantID),
		connection:     strings.TrimSpace(cfg.Connection),
		listenAddr:     cfg.ListenAddr,
		httpClient:     cfg.HTTPClient,
		requestTimeout: cfg.RequestTimeout,
	}
	if flow.httpClient == nil {
		flow.httpClient = http.DefaultClient
	}
	if flow.requestTimeout <= 0 {
		flow.requestTimeout = defaultRequestTimeout
	}

	return flow, nil
}

// WithConnection returns a copy of f that asks the provider for the named
// enterprise connection.
func (f *Flow) WithConnection(connection string) *Flow {
	clone := *f
	clone.connection = strings.TrimSpace(connection)
	return &clone
}

// Attempt is one sign-in in progress. The caller presents AuthorizeURL to the
// user and then calls Complete.
type Attempt struct {
	AuthorizeURL string

	flow     *Flow
	pkce     PKCE
	callback *callbackServer
}

func (f *Flow) Begin() (*Attempt, error) {
	pkce, err := NewPKCE()
	if err != nil {
		return nil, err
	}
	state, err := NewState()
	if err != nil {
		return nil, err
	}

	callback, err := startCallbackServer(f.listenAddr, state)
	if err != nil {
		return nil, err
	}

	authorizeURL, err := f.authorizeURL(callback.redirectURI(), state, pkce.Challenge)
	if err != nil {
		_ = callback.close()
		return nil, err
	}

	return &Attempt{
		AuthorizeURL: authorizeURL,
		flow:         f,
		pkce:         pkce,
		callback:     callback,
	}, nil
}

// Complete waits for the provider redirect and exchanges the code for session
// tokens. The loopback listener is closed on return.
func (a *Attempt) Complete(ctx context.Context) (domain.LoginResult, error) {
	defer func() { _ = a.Close() }()

	code, err := a.callback.wait(ctx)
	if err != nil {
		return domain.LoginResult{}, err
	}

	return a.flow.exchange(ctx, code, a.callback.redirectURI(), a.pkce.Verifier)
}

func (a *Attempt) Close() error {
	return a.callback.close()
}

func (f *Flow) authorizeURL(redirectURI string, state string, challenge string) (string, error) {
	endpoint, err := endpointURL(f.baseURL, authorizePath)
	if err != nil {
		return "", err
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse authorize url: %w", err)
	}

	q := parsed.Query()
	q.Set("response_type", "code")
	q.Set("client_id", f.clientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("state", state)
	q.Set("code_challenge", challenge)
	q.Set("code_challenge_method", ChallengeMethodS256)
	if f.tenantID != "" {
		q.Set("tenant_id", f.tenantID)
	}
	if f.connection != "" {
		q.Set("connection", f.connection)
	}
	parsed.RawQuery = q.Encode()

	return parsed.String(), nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	SessionID    string `json:"session_id"`
	UserID       string `json:"user_id"`
}

type tokenErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (f *Flow) exchange(ctx context.Context, code string, redirectURI string, verifier string) (domain.LoginResult, error) {
	endpoint, err := endpointURL(f.baseURL, tokenPath)
	if err != nil {
		return domain.LoginResult{}, err
	}

	values := url.Values{}
	values.Set("grant_type", "authorization_code")
	values.Set("code", code)
	values.Set("redirect_uri", redirectURI)
	values.Set("client_id", f.clientID)
	values.Set("code_verifier", verifier)

	requestCtx, cancel := f.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return domain.LoginResult{}, fmt.Errorf("create sso token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if f.tenantID != "" {
		req.Header.Set("X-Tenant-ID", f.tenantID)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return domain.LoginResult{}, fmt.Errorf("exchange sso code: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body := io.LimitReader(resp.Body, maxTokenResponseBytes)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.LoginResult{}, fmt.Errorf("exchange sso code: %w", decodeTokenError(resp.StatusCode, body))
	}

	var tokens tokenResponse
	if err := json.NewDecoder(body).Decode(&tokens); err != nil {
		return domain.LoginResult{}, &domain.DecodingError{What: "sso token response", Err: err}
	}
	if tokens.AccessToken == "" {
		return domain.LoginResult{}, &domain.DecodingError{What: "sso token response", Err: errors.New("missing access_token")}
	}

	return domain.LoginResult{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		SessionID:    tokens.SessionID,
		UserID:       tokens.UserID,
	}, nil
}

func (f *Flow) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, f.requestTimeout)
}

func decodeTokenError(status int, body io.Reader) error {
	raw, _ := io.ReadAll(body)

	var payload tokenErrorResponse
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		message := payload.Error
		if payload.ErrorDescription != "" {
			message += ": " + payload.ErrorDescription
		}
		return &domain.NetworkError{Status: status, Message: message}
	}

	return &domain.NetworkError{Status: status, Message: strings.TrimSpace(string(raw))}
}

func endpointURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("sso base url is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse sso base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("sso base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("sso base url host is required")
	}

	parsed.Path = strings.TrimRight(parsed.Path, "/") + path
	parsed.RawQuery = ""
	return parsed.String(), nil
}
