package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entityauth/entitykit/internal/domain"
)

func TestHandleRealtimeEventUpdatesSessionAndAccount(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	token := userToken(t, "u1", "org_1", time.Hour)
	account := h.seedAccount(t, "u1", testNow, []domain.OrganizationSummary{{OrgID: "org_1", Name: "Acme"}}, domain.TokenBundle{AccessToken: token, RefreshToken: "r1"})
	require.NoError(t, h.service.SwitchAccount(ctx, account.ID))

	err := h.service.HandleRealtimeEvent(ctx, domain.RealtimeEvent{
		Username: "grace",
		Organizations: []domain.OrganizationSummary{
			{OrgID: "org_1", Name: "Acme Rockets"},
			{OrgID: "org_2", Name: "Globex"},
		},
		ActiveOrganization: &domain.ActiveOrganization{
			OrganizationSummary: domain.OrganizationSummary{OrgID: "org_1"},
			Description:         "We build rockets",
		},
	})
	require.NoError(t, err)

	snap := h.service.CurrentSnapshot()
	assert.Equal(t, "grace", snap.Username)
	require.Len(t, snap.Organizations, 2)
	require.NotNil(t, snap.ActiveOrganization)
	assert.Equal(t, "Acme Rockets", snap.ActiveOrganization.Name)
	assert.Equal(t, "We build rockets", snap.ActiveOrganization.Description)

	stored, ok := h.account(t, "u1")
	require.True(t, ok)
	assert.Equal(t, "grace", stored.Username)
	assert.Len(t, stored.Organizations, 2)
}

func TestHandleRealtimeEventIgnoresDescriptionForOtherOrganization(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	token := userToken(t, "u1", "org_1", time.Hour)
	account := h.seedAccount(t, "u1", testNow, []domain.OrganizationSummary{{OrgID: "org_1", Name: "Acme"}}, domain.TokenBundle{AccessToken: token})
	require.NoError(t, h.service.SwitchAccount(ctx, account.ID))

	err := h.service.HandleRealtimeEvent(ctx, domain.RealtimeEvent{
		ActiveOrganization: &domain.ActiveOrganization{
			OrganizationSummary: domain.OrganizationSummary{OrgID: "org_2"},
			Description:         "not ours",
		},
	})
	require.NoError(t, err)

	active := h.service.CurrentSnapshot().ActiveOrganization
	require.NotNil(t, active)
	assert.Equal(t, "org_1", active.OrgID)
	assert.Empty(t, active.Description)
}

func TestSessionInvalidEventSignsOutActiveAccount(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	ctx := context.Background()
	token := userToken(t, "u1", "", time.Hour)
	account := h.seedAccount(t, "u1", testNow, nil, domain.TokenBundle{AccessToken: token, RefreshToken: "r1", SessionID: "s1"})
	require.NoError(t, h.service.SwitchAccount(ctx, account.ID))

	require.NoError(t, h.service.HandleRealtimeEvent(ctx, domain.RealtimeEvent{SessionInvalid: true}))

	assert.Equal(t, domain.Snapshot{}, h.service.CurrentSnapshot())
	assert.Empty(t, h.lastUserID(t))
	assert.Zero(t, h.secrets.Len())

	stored, ok := h.account(t, "u1")
	require.True(t, ok)
	assert.False(t, stored.HydratedOnThisDevice)

	err := h.service.SwitchAccount(ctx, account.ID)
	assert.ErrorIs(t, err, domain.ErrTokenBundleNotFound)
}

func TestRealtimeSubscriptionAppliesEventsUntilStopped(t *testing.T) {
	t.Parallel()

	h, source := newRealtimeHarness(t)
	ctx := context.Background()
	token := userToken(t, "u1", "", time.Hour)
	account := h.seedAccount(t, "u1", testNow, nil, domain.TokenBundle{AccessToken: token, RefreshToken: "r1", SessionID: "s1"})

	events := make(chan domain.RealtimeEvent, 4)
	source.EXPECT().Subscribe(mockAnyContext(), "u1", "s1").Return((<-chan domain.RealtimeEvent)(events), nil).Once()

	require.NoError(t, h.service.SwitchAccount(ctx, account.ID))

	events <- domain.RealtimeEvent{Username: "grace"}
	require.Eventually(t, func() bool {
		return h.service.CurrentSnapshot().Username == "grace"
	}, time.Second, 10*time.Millisecond)

	h.service.StopRealtime()
	events <- domain.RealtimeEvent{Username: "too-late"}
	assert.Never(t, func() bool {
		return h.service.CurrentSnapshot().Username == "too-late"
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func TestRealtimeEventsFromReplacedSessionAreDropped(t *testing.T) {
	t.Parallel()

	h, source := newRealtimeHarness(t)
	ctx := context.Background()
	token1 := userToken(t, "u1", "", time.Hour)
	token2 := userToken(t, "u2", "", time.Hour)
	first := h.seedAccount(t, "u1", testNow, nil, domain.TokenBundle{AccessToken: token1, SessionID: "s1"})
	second := h.seedAccount(t, "u2", testNow, nil, domain.TokenBundle{AccessToken: token2, SessionID: "s2"})

	firstEvents := make(chan domain.RealtimeEvent, 1)
	secondEvents := make(chan domain.RealtimeEvent, 1)
	source.EXPECT().Subscribe(mockAnyContext(), "u1", "s1").Return((<-chan domain.RealtimeEvent)(firstEvents), nil).Once()
	source.EXPECT().Subscribe(mockAnyContext(), "u2", "s2").Return((<-chan domain.RealtimeEvent)(secondEvents), nil).Once()

	require.NoError(t, h.service.SwitchAccount(ctx, first.ID))
	require.NoError(t, h.service.SwitchAccount(ctx, second.ID))

	firstEvents <- domain.RealtimeEvent{SessionInvalid: true}
	assert.Never(t, func() bool {
		return !h.service.CurrentSnapshot().SignedIn()
	}, 100*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, "u2", h.service.CurrentSnapshot().UserID)
}

func TestStartRealtimeWithoutSessionIsNoop(t *testing.T) {
	t.Parallel()

	h, _ := newRealtimeHarness(t)

	require.NoError(t, h.service.StartRealtime(context.Background()))
}

func TestOverlappingRealtimeStartsKeepOneSubscription(t *testing.T) {
	t.Parallel()

	h, source := newRealtimeHarness(t)
	ctx := context.Background()
	h.store.Update(func(s *domain.Snapshot) {
		s.AccessToken = userToken(t, "u1", "", time.Hour)
		s.UserID = "u1"
		s.SessionID = "s1"
	})

	events := make(chan domain.RealtimeEvent)
	var first, second context.Context
	source.EXPECT().Subscribe(mockAnyContext(), "u1", "s1").
		RunAndReturn(func(subscribeCtx context.Context, _ string, _ string) (<-chan domain.RealtimeEvent, error) {
			first = subscribeCtx
			require.NoError(t, h.service.StartRealtime(ctx))
			return events, nil
		}).Once()
	source.EXPECT().Subscribe(mockAnyContext(), "u1", "s1").
		RunAndReturn(func(subscribeCtx context.Context, _ string, _ string) (<-chan domain.RealtimeEvent, error) {
			second = subscribeCtx
			return events, nil
		}).Once()

	require.NoError(t, h.service.StartRealtime(ctx))
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.ErrorIs(t, second.Err(), context.Canceled)
	assert.NoError(t, first.Err())

	h.service.StopRealtime()
	assert.ErrorIs(t, first.Err(), context.Canceled)
}

func TestRealtimeStartCancelsItselfAfterConcurrentReset(t *testing.T) {
	t.Parallel()

	h, source := newRealtimeHarness(t)
	ctx := context.Background()
	h.store.Update(func(s *domain.Snapshot) {
		s.AccessToken = userToken(t, "u1", "", time.Hour)
		s.UserID = "u1"
		s.SessionID = "s1"
	})

	var subscribed context.Context
	source.EXPECT().Subscribe(mockAnyContext(), "u1", "s1").
		RunAndReturn(func(subscribeCtx context.Context, _ string, _ string) (<-chan domain.RealtimeEvent, error) {
			subscribed = subscribeCtx
			h.store.Reset()
			return make(chan domain.RealtimeEvent), nil
		}).Once()

	err := h.service.StartRealtime(ctx)
	require.ErrorIs(t, err, domain.ErrSessionReset)
	require.NotNil(t, subscribed)
	assert.ErrorIs(t, subscribed.Err(), context.Canceled)
}
