package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/entityauth/entitykit/internal/domain"
)

// StartRealtime subscribes to server pushes for the current session. Events
// are applied only while the subscription is live and the session has not
// been reset or replaced since. At most one subscription is live: a newer
// start cancels the previous one, and a start whose session was replaced
// while subscribing cancels itself.
func (s *Service) StartRealtime(ctx context.Context) error {
	if s.realtime == nil {
		return nil
	}

	generation := s.store.Generation()
	current := s.store.Current()
	if !current.SignedIn() || current.UserID == "" {
		return nil
	}

	s.StopRealtime()

	realtimeCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	events, err := s.realtime.Subscribe(realtimeCtx, current.UserID, current.SessionID)
	if err != nil {
		cancel()
		return fmt.Errorf("subscribe to realtime events: %w", err)
	}

	s.realtimeMu.Lock()
	if generation != s.store.Generation() {
		s.realtimeMu.Unlock()
		cancel()
		return fmt.Errorf("subscribe to realtime events: %w", domain.ErrSessionReset)
	}
	if s.stopRealtimeFn != nil {
		s.stopRealtimeFn()
	}
	s.stopRealtimeFn = cancel
	s.realtimeMu.Unlock()

	go s.consumeRealtime(realtimeCtx, generation, events)
	return nil
}

func (s *Service) StopRealtime() {
	s.realtimeMu.Lock()
	defer s.realtimeMu.Unlock()

	if s.stopRealtimeFn != nil {
		s.stopRealtimeFn()
		s.stopRealtimeFn = nil
	}
}

func (s *Service) startRealtimeQuietly(ctx context.Context) {
	if err := s.StartRealtime(ctx); err != nil {
		s.logger.Warn("start realtime failed", zap.Error(err))
	}
}

func (s *Service) consumeRealtime(ctx context.Context, generation uint64, events <-chan domain.RealtimeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if ctx.Err() != nil {
				return
			}
			if err := s.handleRealtimeEvent(ctx, generation, event); err != nil {
				s.logger.Debug("realtime event dropped", zap.Error(err))
			}
		}
	}
}

// HandleRealtimeEvent applies a server push to the current session. A
// session-invalid event always resets the session and clears the active
// account's stored tokens.
func (s *Service) HandleRealtimeEvent(ctx context.Context, event domain.RealtimeEvent) error {
	return s.handleRealtimeEvent(ctx, s.store.Generation(), event)
}

func (s *Service) handleRealtimeEvent(ctx context.Context, generation uint64, event domain.RealtimeEvent) error {
	if generation != s.store.Generation() {
		return domain.ErrSessionReset
	}

	if event.SessionInvalid {
		s.metrics.RecordRealtimeEvent("session_invalid")
		s.invalidateSession(context.WithoutCancel(ctx))
		return nil
	}

	s.metrics.RecordRealtimeEvent("session_update")

	batch := s.store.Begin()
	if batch.Generation() != generation {
		batch.End()
		return domain.ErrSessionReset
	}

	err := batch.Apply(func(snap *domain.Snapshot) {
		if event.Username != "" {
			snap.Username = event.Username
		}
		if event.Organizations != nil {
			snap.Organizations = domain.CloneOrganizations(event.Organizations)
		}

		active := deriveKeepingDescription(snap.AccessToken, snap.Organizations, snap.ActiveOrganization)
		if active != nil && event.ActiveOrganization != nil && event.ActiveOrganization.OrgID == active.OrgID {
			active.Description = event.ActiveOrganization.Description
		}
		snap.ActiveOrganization = active
	})
	batch.End()
	if err != nil {
		return err
	}

	s.syncQuietly(ctx)
	return nil
}

func (s *Service) invalidateSession(ctx context.Context) {
	current := s.store.Current()

	s.StopRealtime()
	s.store.Reset()

	if err := s.state.Delete(ctx, lastUserIDKey); err != nil {
		s.logger.Warn("clear last user id failed", zap.Error(err))
	}
	if current.UserID == "" {
		return
	}

	id := domain.NewAccountID(current.UserID, s.tenantID)

	s.accountsMu.Lock()
	defer s.accountsMu.Unlock()

	if err := s.vault.DeleteBundle(ctx, id); err != nil {
		s.logger.Warn("delete token bundle failed", zap.String("account_id", string(id)), zap.Error(err))
	}

	accounts, err := s.registry.List(ctx)
	if err != nil {
		s.logger.Warn("list accounts failed", zap.String("account_id", string(id)), zap.Error(err))
		return
	}

	account, ok := findAccount(accounts, id)
	if !ok {
		return
	}

	account.HydratedOnThisDevice = false
	if err := s.registry.Upsert(ctx, account); err != nil {
		s.logger.Warn("mark account not hydrated failed", zap.String("account_id", string(id)), zap.Error(err))
	}
}
