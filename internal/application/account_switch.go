package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/entityauth/entitykit/internal/domain"
)

// ActiveAccountID is the id of the account behind the current session.
func (s *Service) ActiveAccountID() (domain.AccountID, bool) {
	userID := s.store.Current().UserID
	if userID == "" {
		return "", false
	}

	return domain.NewAccountID(userID, s.tenantID), true
}

func (s *Service) ListAccounts(ctx context.Context) ([]AccountSummary, error) {
	accounts, err := s.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	activeID, hasActive := s.ActiveAccountID()
	summaries := make([]AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		summaries = append(summaries, AccountSummary{
			Account: account,
			Active:  hasActive && account.ID == activeID,
		})
	}

	return summaries, nil
}

// ActiveAccount returns nil when no stored account matches the session.
func (s *Service) ActiveAccount(ctx context.Context) (*AccountSummary, error) {
	summaries, err := s.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	for _, summary := range summaries {
		if summary.Active {
			return &summary, nil
		}
	}

	return nil, nil
}

// SwitchAccount makes id the active account. It fails with
// domain.ErrAccountNotFound or domain.ErrTokenBundleNotFound, both matching
// domain.ErrNotFound, and leaves the session untouched in that case.
func (s *Service) SwitchAccount(ctx context.Context, id domain.AccountID) error {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()

	err := s.switchAccountLocked(ctx, id)
	s.metrics.RecordAccountSwitch(err)
	return err
}

func (s *Service) switchAccountLocked(ctx context.Context, id domain.AccountID) error {
	batch := s.store.Begin()
	defer batch.End()

	accounts, err := s.registry.List(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}

	account, ok := findAccount(accounts, id)
	if !ok {
		return fmt.Errorf("switch account %q: %w", id, domain.ErrAccountNotFound)
	}

	bundle, err := s.vault.LoadBundle(ctx, id)
	if err != nil {
		return fmt.Errorf("switch account: %w", err)
	}

	s.StopRealtime()
	if err := batch.Replace(snapshotFromAccount(account, bundle)); err != nil {
		return fmt.Errorf("switch account: %w", err)
	}

	if _, err := s.refresher.EnsureFresh(ctx); err != nil {
		s.logger.Warn("token refresh after switch failed", zap.String("account_id", string(id)), zap.Error(err))
	}
	batch.End()

	account.LastActiveAt = s.clock.Now()
	account.HydratedOnThisDevice = true
	if err := s.registry.Upsert(ctx, account); err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	s.rememberUser(ctx, account.UserID)
	s.startRealtimeQuietly(ctx)

	return nil
}

// LogoutAccount signs id out on this device. When id is the active account the
// server session is ended too and the most recently active remaining hydrated
// account takes over.
func (s *Service) LogoutAccount(ctx context.Context, id domain.AccountID) error {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()

	accounts, err := s.registry.List(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}
	if _, ok := findAccount(accounts, id); !ok {
		return fmt.Errorf("logout account %q: %w", id, domain.ErrAccountNotFound)
	}

	activeID, hasActive := s.ActiveAccountID()
	wasActive := hasActive && activeID == id
	if wasActive {
		s.endSession(ctx)
	}

	if err := s.vault.DeleteBundle(ctx, id); err != nil {
		s.logger.Warn("delete token bundle failed", zap.String("account_id", string(id)), zap.Error(err))
	}

	if err := s.registry.Remove(ctx, id); err != nil {
		return fmt.Errorf("remove account: %w", err)
	}

	if !wasActive {
		return nil
	}

	remaining := make([]domain.Account, 0, len(accounts))
	for _, account := range accounts {
		if account.ID != id && account.HydratedOnThisDevice {
			remaining = append(remaining, account)
		}
	}

	next, ok := domain.MostRecentlyActive(remaining)
	if !ok {
		return nil
	}

	err = s.switchAccountLocked(ctx, next.ID)
	s.metrics.RecordAccountSwitch(err)
	if err != nil {
		s.logger.Warn("switch to remaining account failed", zap.String("account_id", string(next.ID)), zap.Error(err))
	}

	return nil
}

// LogoutAll ends the current session and forgets every account.
func (s *Service) LogoutAll(ctx context.Context) error {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()

	s.endSession(ctx)

	accounts, err := s.registry.List(ctx)
	if err != nil {
		s.logger.Warn("list accounts failed", zap.Error(err))
	}
	for _, account := range accounts {
		if err := s.vault.DeleteBundle(ctx, account.ID); err != nil {
			s.logger.Warn("delete token bundle failed", zap.String("account_id", string(account.ID)), zap.Error(err))
		}
	}

	if err := s.registry.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear accounts: %w", err)
	}

	return nil
}

// SyncFromCurrentSession records the current session as an account. It never
// calls the network. Failing to store the token bundle leaves the account
// visible but not hydrated.
func (s *Service) SyncFromCurrentSession(ctx context.Context) error {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()

	return s.syncLocked(ctx)
}

func (s *Service) syncLocked(ctx context.Context) error {
	current := s.store.Current()
	if current.UserID == "" {
		return nil
	}

	id := domain.NewAccountID(current.UserID, s.tenantID)
	accounts, err := s.registry.List(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}
	existing, found := findAccount(accounts, id)

	account := domain.Account{
		ID:                   id,
		UserID:               current.UserID,
		Email:                current.Email,
		Username:             current.Username,
		ImageURL:             current.ImageURL,
		WorkspaceTenantID:    s.tenantID,
		Organizations:        domain.CloneOrganizations(current.Organizations),
		ActiveOrganizationID: current.ActiveOrganizationID(),
		LastActiveAt:         s.clock.Now(),
		HydratedOnThisDevice: found && existing.HydratedOnThisDevice,
	}

	if current.AccessToken != "" {
		if err := s.vault.StoreBundle(ctx, id, current.Bundle()); err != nil {
			s.logger.Warn("store token bundle failed", zap.String("account_id", string(id)), zap.Error(err))
			account.HydratedOnThisDevice = s.settleFailedBundle(ctx, id)
		} else {
			account.HydratedOnThisDevice = true
		}
	}

	if err := s.registry.Upsert(ctx, account); err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	return nil
}

// settleFailedBundle discards what a failed StoreBundle left behind and
// reports whether the vault still holds an access token for id.
func (s *Service) settleFailedBundle(ctx context.Context, id domain.AccountID) bool {
	if err := s.vault.DeleteBundle(ctx, id); err != nil {
		s.logger.Warn("discard partial token bundle failed", zap.String("account_id", string(id)), zap.Error(err))
	}

	_, err := s.vault.LoadBundle(ctx, id)
	return err == nil
}

// ImportRemoteAccounts adds accounts from the cloud account set that this
// device does not know yet, as not hydrated. Existing accounts are never
// changed or removed. It returns how many accounts were added.
func (s *Service) ImportRemoteAccounts(ctx context.Context, remote []RemoteAccount) (int, error) {
	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()

	accounts, err := s.registry.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list accounts: %w", err)
	}

	known := make(map[domain.AccountID]struct{}, len(accounts))
	for _, account := range accounts {
		known[account.ID] = struct{}{}
	}

	added := 0
	for _, candidate := range remote {
		if candidate.UserID == "" {
			continue
		}

		account := candidate.account(s.tenantID)
		if _, ok := known[account.ID]; ok {
			continue
		}

		if err := s.registry.Upsert(ctx, account); err != nil {
			return added, fmt.Errorf("save account: %w", err)
		}
		known[account.ID] = struct{}{}
		added++
	}

	return added, nil
}
