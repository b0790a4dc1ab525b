package entityapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/entityauth/entitykit/internal/domain"
	"github.com/entityauth/entitykit/internal/ports"
)

type Auth struct {
	client *Client
}

var _ ports.AuthProvider = (*Auth)(nil)

type loginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	SessionID    string `json:"sessionId"`
	UserID       string `json:"userId"`
}

func (r loginResponse) result() (domain.LoginResult, error) {
	if r.AccessToken == "" {
		return domain.LoginResult{}, &domain.DecodingError{What: "login response", Err: errors.New("access token is missing")}
	}

	return domain.LoginResult{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		SessionID:    r.SessionID,
		UserID:       r.UserID,
	}, nil
}

func (a *Auth) Register(ctx context.Context, registration domain.Registration) (domain.LoginResult, error) {
	body := map[string]string{
		"email":    registration.Email,
		"username": registration.Username,
		"password": registration.Password,
	}

	var resp loginResponse
	if err := a.client.do(ctx, http.MethodPost, "/auth/register", "", body, &resp); err != nil {
		return domain.LoginResult{}, err
	}

	return resp.result()
}

func (a *Auth) Login(ctx context.Context, credentials domain.Credentials) (domain.LoginResult, error) {
	body := map[string]string{
		"email":    credentials.Email,
		"password": credentials.Password,
	}

	var resp loginResponse
	if err := a.client.do(ctx, http.MethodPost, "/auth/login", "", body, &resp); err != nil {
		return domain.LoginResult{}, err
	}

	return resp.result()
}

// Refresh returns an empty RefreshToken when the server did not rotate it.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	var resp struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	err := a.client.do(ctx, http.MethodPost, "/auth/refresh", "", map[string]string{"refreshToken": refreshToken}, &resp)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if resp.AccessToken == "" {
		return domain.TokenPair{}, &domain.DecodingError{What: "refresh response", Err: errors.New("access token is missing")}
	}

	return domain.TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, nil
}

func (a *Auth) Logout(ctx context.Context, sessionID string, refreshToken string) error {
	body := map[string]string{
		"sessionId":    sessionID,
		"refreshToken": refreshToken,
	}

	return a.client.do(ctx, http.MethodPost, "/auth/logout", "", body, nil)
}
