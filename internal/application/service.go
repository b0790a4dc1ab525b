package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/entityauth/entitykit/internal/domain"
	"github.com/entityauth/entitykit/internal/metrics"
	"github.com/entityauth/entitykit/internal/ports"
	"github.com/entityauth/entitykit/internal/session"
)

const lastUserIDKey = "entitykit.lastUserId"

type Dependencies struct {
	Store         *session.Store
	Auth          ports.AuthProvider
	Organizations ports.OrganizationsProvider
	Identity      ports.IdentityProvider
	Secrets       ports.SecretStore
	State         ports.KeyValueStore
	Registry      ports.AccountRegistry
	// Realtime is optional.
	Realtime ports.RealtimeSource
	Clock    ports.Clock
	Logger   *zap.Logger
	Metrics  *metrics.Metrics

	TenantID    string
	RefreshSkew time.Duration
}

// Service drives the session and the accounts known on this device.
type Service struct {
	store     *session.Store
	auth      ports.AuthProvider
	identity  ports.IdentityProvider
	state     ports.KeyValueStore
	registry  ports.AccountRegistry
	realtime  ports.RealtimeSource
	vault     *CredentialVault
	refresher *TokenRefresher
	orgs      *OrgResolver
	clock     ports.Clock
	logger    *zap.Logger
	metrics   *metrics.Metrics
	tenantID  string

	accountsMu sync.Mutex

	realtimeMu     sync.Mutex
	stopRealtimeFn context.CancelFunc
}

func NewService(deps Dependencies) *Service {
	if deps.Clock == nil {
		deps.Clock = ports.SystemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Store == nil {
		deps.Store = session.NewStore(deps.Logger, deps.Metrics)
	}

	refresher := NewTokenRefresher(deps.Store, deps.Auth, deps.Clock, deps.RefreshSkew, deps.Logger, deps.Metrics)
	s := &Service{
		store:     deps.Store,
		auth:      deps.Auth,
		identity:  deps.Identity,
		state:     deps.State,
		registry:  deps.Registry,
		realtime:  deps.Realtime,
		vault:     NewCredentialVault(deps.Secrets),
		refresher: refresher,
		orgs:      NewOrgResolver(deps.Store, refresher, deps.Organizations, deps.Logger),
		clock:     deps.Clock,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		tenantID:  strings.TrimSpace(deps.TenantID),
	}
	refresher.OnRefresh(s.persistRefreshedBundle)

	return s
}

func (s *Service) CurrentSnapshot() domain.Snapshot {
	return s.store.Current()
}

// SnapshotStream yields the current Snapshot and then every change.
func (s *Service) SnapshotStream(ctx context.Context) (<-chan domain.Snapshot, func()) {
	return s.store.Subscribe(ctx)
}

func (s *Service) Refresher() *TokenRefresher {
	return s.refresher
}

func (s *Service) Login(ctx context.Context, credentials domain.Credentials) error {
	batch := s.store.Begin()
	defer batch.End()

	result, err := s.auth.Login(ctx, credentials)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	return s.establish(ctx, batch, result)
}

func (s *Service) Register(ctx context.Context, registration domain.Registration) error {
	batch := s.store.Begin()
	defer batch.End()

	result, err := s.auth.Register(ctx, registration)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	return s.establish(ctx, batch, result)
}

// ApplyExternalTokens establishes a session from tokens obtained elsewhere,
// such as an SSO exchange or a passkey sign-in.
func (s *Service) ApplyExternalTokens(ctx context.Context, result domain.LoginResult) error {
	batch := s.store.Begin()
	defer batch.End()

	return s.establish(ctx, batch, result)
}

// establish replaces the session with result and hydrates it inside batch, so
// subscribers see the session either before or after, never half built.
func (s *Service) establish(ctx context.Context, batch *session.Batch, result domain.LoginResult) error {
	if strings.TrimSpace(result.AccessToken) == "" {
		return errors.New("establish session: access token is empty")
	}

	claims := domain.DecodeClaims(result.AccessToken)
	userID := strings.TrimSpace(result.UserID)
	if userID == "" {
		userID = claims.Subject()
	}

	s.StopRealtime()
	err := batch.Replace(domain.Snapshot{
		AccessToken:        result.AccessToken,
		RefreshToken:       result.RefreshToken,
		SessionID:          result.SessionID,
		UserID:             userID,
		Email:              claims.Email(),
		ActiveOrganization: domain.DeriveActiveOrganization(result.AccessToken, nil),
	})
	if err != nil {
		return fmt.Errorf("establish session: %w", err)
	}

	orgsErr := s.orgs.Load(ctx)
	if orgsErr != nil {
		s.logger.Warn("load organizations failed", zap.Error(orgsErr))
	}
	if _, err := s.loadIdentity(ctx); err != nil {
		s.logger.Warn("load identity failed", zap.Error(err))
	}
	// An unknown organization list is not an empty one.
	if orgsErr == nil {
		s.orgs.BootstrapIfMissing(ctx)
	}

	generation := batch.Generation()
	batch.End()
	if generation != s.store.Generation() {
		return fmt.Errorf("establish session: %w", domain.ErrSessionReset)
	}

	s.rememberUser(ctx, userID)
	if err := s.SyncFromCurrentSession(ctx); err != nil {
		s.logger.Warn("sync account from session failed", zap.Error(err))
	}
	s.startRealtimeQuietly(ctx)

	return nil
}

// Restore rebuilds the session on a cold start from the most recently active
// hydrated account. Network failures are logged and leave the restored
// identity in place.
func (s *Service) Restore(ctx context.Context) error {
	batch := s.store.Begin()
	defer batch.End()

	lastUserID, _, err := s.state.Get(ctx, lastUserIDKey)
	if err != nil {
		s.logger.Warn("read last user id failed", zap.Error(err))
	}
	if lastUserID != "" {
		if err := batch.Apply(func(snap *domain.Snapshot) { snap.UserID = lastUserID }); err != nil {
			return fmt.Errorf("restore session: %w", err)
		}
	}

	accounts, err := s.registry.List(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}

	candidate, ok := restoreCandidate(accounts, lastUserID)
	if !ok {
		return nil
	}

	bundle, err := s.vault.LoadBundle(ctx, candidate.ID)
	if err != nil {
		s.logger.Warn("load token bundle failed", zap.String("account_id", string(candidate.ID)), zap.Error(err))
		return nil
	}

	if err := batch.Replace(snapshotFromAccount(candidate, bundle)); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	if _, err := s.refresher.EnsureFresh(ctx); err != nil {
		s.logger.Warn("cold start token refresh failed", zap.String("account_id", string(candidate.ID)), zap.Error(err))
	}
	if err := s.orgs.Load(ctx); err != nil {
		s.logger.Warn("load organizations failed", zap.Error(err))
	}
	if _, err := s.loadIdentity(ctx); err != nil {
		s.logger.Warn("load identity failed", zap.Error(err))
	}

	generation := batch.Generation()
	batch.End()
	if generation != s.store.Generation() {
		return nil
	}

	s.startRealtimeQuietly(ctx)
	return nil
}

// Logout ends the current session on the server (best effort) and empties the
// Snapshot. Stored accounts are left alone.
func (s *Service) Logout(ctx context.Context) error {
	s.endSession(ctx)
	return nil
}

func (s *Service) endSession(ctx context.Context) {
	current := s.store.Current()
	if current.SessionID != "" || current.RefreshToken != "" {
		if err := s.auth.Logout(ctx, current.SessionID, current.RefreshToken); err != nil {
			s.logger.Warn("server logout failed", zap.Error(err))
		}
	}

	s.StopRealtime()
	s.store.Reset()

	if err := s.state.Delete(ctx, lastUserIDKey); err != nil {
		s.logger.Warn("clear last user id failed", zap.Error(err))
	}
}

func (s *Service) SetUsername(ctx context.Context, username string) error {
	generation := s.store.Generation()
	err := s.refresher.Do(ctx, func(ctx context.Context, accessToken string) error {
		return s.identity.UpdateUsername(ctx, accessToken, username)
	})
	if err != nil {
		return fmt.Errorf("set username: %w", err)
	}

	if err := s.store.UpdateAt(generation, func(snap *domain.Snapshot) { snap.Username = username }); err != nil {
		return fmt.Errorf("set username: %w", err)
	}

	s.syncQuietly(ctx)
	return nil
}

func (s *Service) SetEmail(ctx context.Context, email string) error {
	generation := s.store.Generation()
	err := s.refresher.Do(ctx, func(ctx context.Context, accessToken string) error {
		return s.identity.UpdateEmail(ctx, accessToken, email)
	})
	if err != nil {
		return fmt.Errorf("set email: %w", err)
	}

	if err := s.store.UpdateAt(generation, func(snap *domain.Snapshot) { snap.Email = email }); err != nil {
		return fmt.Errorf("set email: %w", err)
	}

	s.syncQuietly(ctx)
	return nil
}

func (s *Service) SwitchOrganization(ctx context.Context, orgID string) error {
	if err := s.orgs.Switch(ctx, orgID); err != nil {
		return err
	}

	s.syncQuietly(ctx)
	return nil
}

func (s *Service) RefreshOrganizations(ctx context.Context) error {
	if err := s.orgs.Load(ctx); err != nil {
		return err
	}

	s.syncQuietly(ctx)
	return nil
}

// Authorized runs op with the session's access token, refreshing and retrying
// once on an authorization failure.
func (s *Service) Authorized(ctx context.Context, op func(ctx context.Context, accessToken string) error) error {
	return s.refresher.Do(ctx, op)
}

// loadIdentity fetches the current user and fills the identity fields the
// server knows about.
func (s *Service) loadIdentity(ctx context.Context) (domain.Identity, error) {
	batch := s.store.Begin()
	defer batch.End()

	var identity domain.Identity
	err := s.refresher.Do(ctx, func(ctx context.Context, accessToken string) error {
		var err error
		identity, err = s.identity.Me(ctx, accessToken)
		return err
	})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("fetch current user: %w", err)
	}

	err = batch.Apply(func(snap *domain.Snapshot) {
		if snap.UserID == "" {
			snap.UserID = identity.ID
		}
		if identity.Email != "" {
			snap.Email = identity.Email
		}
		if identity.Username != "" {
			snap.Username = identity.Username
		}
		if identity.ImageURL != "" {
			snap.ImageURL = identity.ImageURL
		}
	})
	if err != nil {
		return domain.Identity{}, err
	}

	return identity, nil
}

func (s *Service) rememberUser(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	if err := s.state.Set(ctx, lastUserIDKey, userID); err != nil {
		s.logger.Warn("store last user id failed", zap.Error(err))
	}
}

func (s *Service) syncQuietly(ctx context.Context) {
	if err := s.SyncFromCurrentSession(ctx); err != nil {
		s.logger.Warn("sync account from session failed", zap.Error(err))
	}
}

// persistRefreshedBundle keeps the vault in step with refreshed tokens for an
// account that is already hydrated on this device. It runs from the refresh
// hook, possibly under accountsMu, and must not take that lock.
func (s *Service) persistRefreshedBundle(ctx context.Context, snapshot domain.Snapshot) {
	if snapshot.UserID == "" || snapshot.AccessToken == "" {
		return
	}

	id := domain.NewAccountID(snapshot.UserID, s.tenantID)
	accounts, err := s.registry.List(ctx)
	if err != nil {
		s.logger.Warn("list accounts failed", zap.String("account_id", string(id)), zap.Error(err))
		return
	}

	account, ok := findAccount(accounts, id)
	if !ok || !account.HydratedOnThisDevice {
		return
	}

	if err := s.vault.StoreBundle(ctx, id, snapshot.Bundle()); err != nil {
		s.logger.Warn("persist refreshed tokens failed", zap.String("account_id", string(id)), zap.Error(err))

		account.HydratedOnThisDevice = s.settleFailedBundle(ctx, id)
		if err := s.registry.Upsert(ctx, account); err != nil {
			s.logger.Warn("mark account not hydrated failed", zap.String("account_id", string(id)), zap.Error(err))
		}
	}
}

func snapshotFromAccount(account domain.Account, bundle domain.TokenBundle) domain.Snapshot {
	organizations := domain.CloneOrganizations(account.Organizations)

	return domain.Snapshot{
		AccessToken:        bundle.AccessToken,
		RefreshToken:       bundle.RefreshToken,
		SessionID:          bundle.SessionID,
		UserID:             account.UserID,
		Username:           account.Username,
		Email:              account.Email,
		ImageURL:           account.ImageURL,
		Organizations:      organizations,
		ActiveOrganization: domain.DeriveActiveOrganization(bundle.AccessToken, organizations),
	}
}

// restoreCandidate picks the most recently active hydrated account, preferring
// the last signed-in user.
func restoreCandidate(accounts []domain.Account, lastUserID string) (domain.Account, bool) {
	var preferred, hydrated []domain.Account
	for _, account := range accounts {
		if !account.HydratedOnThisDevice {
			continue
		}
		hydrated = append(hydrated, account)
		if lastUserID != "" && account.UserID == lastUserID {
			preferred = append(preferred, account)
		}
	}

	if account, ok := domain.MostRecentlyActive(preferred); ok {
		return account, true
	}

	return domain.MostRecentlyActive(hydrated)
}

func findAccount(accounts []domain.Account, id domain.AccountID) (domain.Account, bool) {
	for _, account := range accounts {
		if account.ID == id {
			return account, true
		}
	}

	return domain.Account{}, false
}
