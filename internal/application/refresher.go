package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/entityauth/entitykit/internal/domain"
	"github.com/entityauth/entitykit/internal/metrics"
	"github.com/entityauth/entitykit/internal/ports"
	"github.com/entityauth/entitykit/internal/session"
)

const DefaultRefreshSkew = 90 * time.Second

// TokenRefresher keeps the session's access token usable. Concurrent refreshes
// share one network call.
type TokenRefresher struct {
	store   *session.Store
	auth    ports.AuthProvider
	clock   ports.Clock
	skew    time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics

	group singleflight.Group

	hookMu    sync.RWMutex
	onRefresh func(ctx context.Context, snapshot domain.Snapshot)
}

func NewTokenRefresher(store *session.Store, auth ports.AuthProvider, clock ports.Clock, skew time.Duration, logger *zap.Logger, m *metrics.Metrics) *TokenRefresher {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if skew <= 0 {
		skew = DefaultRefreshSkew
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &TokenRefresher{
		store:   store,
		auth:    auth,
		clock:   clock,
		skew:    skew,
		logger:  logger,
		metrics: m,
	}
}

// OnRefresh registers a callback run after every successful refresh with the
// updated Snapshot.
func (r *TokenRefresher) OnRefresh(fn func(ctx context.Context, snapshot domain.Snapshot)) {
	r.hookMu.Lock()
	defer r.hookMu.Unlock()

	r.onRefresh = fn
}

// NeedsRefresh is true when the token expires within the skew window. Tokens
// without an exp claim never need a refresh.
func (r *TokenRefresher) NeedsRefresh(accessToken string) bool {
	exp, ok := domain.DecodeClaims(accessToken).ExpiresAt()
	if !ok {
		return false
	}

	return !exp.After(r.clock.Now().Add(r.skew))
}

// EnsureFresh returns an access token, refreshing first when the current one is
// about to expire. On refresh failure the current token is returned together
// with the error.
func (r *TokenRefresher) EnsureFresh(ctx context.Context) (string, error) {
	current := r.store.Current()
	if current.AccessToken == "" {
		return "", domain.ErrNotSignedIn
	}
	if !r.NeedsRefresh(current.AccessToken) {
		return current.AccessToken, nil
	}

	accessToken, err := r.Refresh(ctx)
	if err != nil {
		return current.AccessToken, err
	}

	return accessToken, nil
}

// Refresh exchanges the refresh token for a new access token and applies it to
// the session.
func (r *TokenRefresher) Refresh(ctx context.Context) (string, error) {
	result, err, shared := r.group.Do("refresh", func() (any, error) {
		return r.refresh(ctx)
	})
	if shared {
		r.metrics.RecordRefresh(metrics.ResultShared)
	}
	if err != nil {
		return "", err
	}

	return result.(string), nil
}

func (r *TokenRefresher) refresh(ctx context.Context) (string, error) {
	batch := r.store.Begin()
	defer batch.End()

	refreshToken := r.store.Current().RefreshToken
	if refreshToken == "" {
		r.metrics.RecordRefresh(metrics.ResultFailure)
		return "", domain.ErrNoRefreshToken
	}

	pair, err := r.auth.Refresh(ctx, refreshToken)
	if err != nil {
		r.metrics.RecordRefresh(metrics.ResultFailure)
		return "", fmt.Errorf("refresh token: %w", err)
	}

	err = batch.Apply(func(s *domain.Snapshot) {
		s.AccessToken = pair.AccessToken
		if pair.RefreshToken != "" {
			s.RefreshToken = pair.RefreshToken
		}
		s.ActiveOrganization = deriveKeepingDescription(s.AccessToken, s.Organizations, s.ActiveOrganization)
	})
	if err != nil {
		r.metrics.RecordRefresh(metrics.ResultFailure)
		return "", fmt.Errorf("apply refreshed token: %w", err)
	}

	r.metrics.RecordRefresh(metrics.ResultSuccess)
	r.logger.Debug("access token refreshed")

	r.hookMu.RLock()
	hook := r.onRefresh
	r.hookMu.RUnlock()
	if hook != nil {
		hook(ctx, r.store.Current())
	}

	return pair.AccessToken, nil
}

// Do runs op with a usable access token. An authorization failure triggers one
// refresh and one retry; a failed refresh surfaces the original error.
func (r *TokenRefresher) Do(ctx context.Context, op func(ctx context.Context, accessToken string) error) error {
	current := r.store.Current()
	if current.AccessToken == "" {
		return domain.ErrNotSignedIn
	}

	accessToken := current.AccessToken
	refreshed := false
	if r.NeedsRefresh(accessToken) {
		refreshed = true
		token, err := r.Refresh(ctx)
		if err != nil {
			r.logger.Warn("proactive token refresh failed", zap.Error(err))
		} else {
			accessToken = token
		}
	}

	err := op(ctx, accessToken)
	if err == nil || refreshed || !domain.IsAuthorizationError(err) {
		return err
	}

	token, refreshErr := r.Refresh(ctx)
	if refreshErr != nil {
		r.logger.Warn("reactive token refresh failed", zap.Error(refreshErr))
		return err
	}

	return op(ctx, token)
}

// deriveKeepingDescription re-derives the active organization and carries the
// previous description over when the org did not change.
func deriveKeepingDescription(accessToken string, organizations []domain.OrganizationSummary, previous *domain.ActiveOrganization) *domain.ActiveOrganization {
	active := domain.DeriveActiveOrganization(accessToken, organizations)
	if active != nil && previous != nil && previous.OrgID == active.OrgID {
		active.Description = previous.Description
	}

	return active
}
