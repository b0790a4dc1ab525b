package application

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/entityauth/entitykit/internal/domain"
	"github.com/entityauth/entitykit/internal/ports/mocks"
	"github.com/entityauth/entitykit/internal/session"
)

type resolverFixture struct {
	resolver *OrgResolver
	store    *session.Store
	orgs     *mocks.MockOrganizationsProvider
}

func newResolverFixture(t *testing.T, snap domain.Snapshot) *resolverFixture {
	t.Helper()

	store := session.NewStore(zap.NewNop(), nil)
	t.Cleanup(store.Close)
	store.Update(func(s *domain.Snapshot) { *s = snap })

	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(testNow).Maybe()

	refresher := NewTokenRefresher(store, mocks.NewMockAuthProvider(t), clock, 0, zap.NewNop(), nil)
	orgs := mocks.NewMockOrganizationsProvider(t)

	return &resolverFixture{
		resolver: NewOrgResolver(store, refresher, orgs, zap.NewNop()),
		store:    store,
		orgs:     orgs,
	}
}

func slugTaken() error {
	return &domain.NetworkError{Status: http.StatusConflict, Message: "organization slug already exists"}
}

func TestOrgResolverLoadDerivesActiveOrganization(t *testing.T) {
	t.Parallel()

	token := userToken(t, "u1", "org_2", time.Hour)
	f := newResolverFixture(t, domain.Snapshot{AccessToken: token, UserID: "u1"})
	members := 4
	organizations := []domain.OrganizationSummary{
		{OrgID: "org_1", Name: "Acme"},
		{OrgID: "org_2", Name: "Globex", MemberCount: &members, Role: "admin"},
	}

	f.orgs.EXPECT().List(mockAnyContext(), token).Return(organizations, nil).Once()

	require.NoError(t, f.resolver.Load(context.Background()))

	snap := f.store.Current()
	require.Len(t, snap.Organizations, 2)
	require.NotNil(t, snap.ActiveOrganization)
	assert.Equal(t, "Globex", snap.ActiveOrganization.Name)
	assert.Equal(t, "admin", snap.ActiveOrganization.Role)
	require.NotNil(t, snap.ActiveOrganization.MemberCount)
	assert.Equal(t, 4, *snap.ActiveOrganization.MemberCount)
}

func TestOrgResolverLoadFailureKeepsCachedList(t *testing.T) {
	t.Parallel()

	token := userToken(t, "u1", "org_1", time.Hour)
	cached := []domain.OrganizationSummary{{OrgID: "org_1", Name: "Acme"}}
	f := newResolverFixture(t, domain.Snapshot{AccessToken: token, Organizations: cached})

	f.orgs.EXPECT().List(mockAnyContext(), token).Return(nil, errors.New("boom")).Once()

	err := f.resolver.Load(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "list organizations")
	assert.Equal(t, cached, f.store.Current().Organizations)
}

func TestOrgResolverSwitchAppliesNewToken(t *testing.T) {
	t.Parallel()

	token := userToken(t, "u1", "org_1", time.Hour)
	switched := userToken(t, "u1", "org_2", time.Hour)
	f := newResolverFixture(t, domain.Snapshot{
		AccessToken:   token,
		Organizations: []domain.OrganizationSummary{{OrgID: "org_1", Name: "Acme"}, {OrgID: "org_2", Name: "Globex"}},
	})

	f.orgs.EXPECT().Switch(mockAnyContext(), token, "org_2").Return(switched, nil).Once()

	require.NoError(t, f.resolver.Switch(context.Background(), "org_2"))

	snap := f.store.Current()
	assert.Equal(t, switched, snap.AccessToken)
	require.NotNil(t, snap.ActiveOrganization)
	assert.Equal(t, "Globex", snap.ActiveOrganization.Name)
}

func TestOrgResolverSwitchFailureKeepsToken(t *testing.T) {
	t.Parallel()

	token := userToken(t, "u1", "org_1", time.Hour)
	f := newResolverFixture(t, domain.Snapshot{AccessToken: token})

	f.orgs.EXPECT().Switch(mockAnyContext(), token, "org_9").
		Return("", &domain.NetworkError{Status: http.StatusForbidden, Message: "not a member"}).Once()

	err := f.resolver.Switch(context.Background(), "org_9")
	require.Error(t, err)
	assert.ErrorContains(t, err, "not a member")
	assert.Equal(t, token, f.store.Current().AccessToken)
}

func TestBootstrapSkipsWhenOrganizationsExist(t *testing.T) {
	t.Parallel()

	f := newResolverFixture(t, domain.Snapshot{
		AccessToken:   userToken(t, "u1", "", time.Hour),
		Organizations: []domain.OrganizationSummary{{OrgID: "org_1"}},
	})

	_, created := f.resolver.BootstrapIfMissing(context.Background())
	assert.False(t, created)
}

func TestBootstrapSkipsWithoutSession(t *testing.T) {
	t.Parallel()

	f := newResolverFixture(t, domain.Snapshot{UserID: "u1"})

	_, created := f.resolver.BootstrapIfMissing(context.Background())
	assert.False(t, created)
}

func TestBootstrapSucceedsOnTenthAttempt(t *testing.T) {
	t.Parallel()

	token := userToken(t, "u1", "", time.Hour)
	switched := userToken(t, "u1", "org_new", time.Hour)
	f := newResolverFixture(t, domain.Snapshot{AccessToken: token, UserID: "u1", Email: "grace.hopper@example.com"})

	for attempt := 1; attempt < maxBootstrapAttempts; attempt++ {
		f.orgs.EXPECT().Create(mockAnyContext(), token, "grace.hopper's Org", domain.SlugAttempt("gracehopper", attempt), "u1").
			Return(domain.OrganizationSummary{}, slugTaken()).Once()
	}
	want := domain.OrganizationSummary{OrgID: "org_new", Name: "grace.hopper's Org", Slug: "gracehopper-10"}
	f.orgs.EXPECT().Create(mockAnyContext(), token, "grace.hopper's Org", "gracehopper-10", "u1").Return(want, nil).Once()
	f.orgs.EXPECT().Switch(mockAnyContext(), token, "org_new").Return(switched, nil).Once()

	got, created := f.resolver.BootstrapIfMissing(context.Background())
	require.True(t, created)
	assert.Equal(t, want, got)

	snap := f.store.Current()
	assert.Equal(t, []domain.OrganizationSummary{want}, snap.Organizations)
	require.NotNil(t, snap.ActiveOrganization)
	assert.Equal(t, "org_new", snap.ActiveOrganization.OrgID)
	assert.Equal(t, switched, snap.AccessToken)
}

func TestBootstrapGivesUpSilentlyAfterTenCollisions(t *testing.T) {
	t.Parallel()

	token := userToken(t, "u1", "", time.Hour)
	f := newResolverFixture(t, domain.Snapshot{AccessToken: token, UserID: "u1", Username: "ada"})

	f.orgs.EXPECT().Create(mockAnyContext(), token, "ada's Org", mockAnyContext(), "u1").
		Return(domain.OrganizationSummary{}, slugTaken()).Times(maxBootstrapAttempts)

	_, created := f.resolver.BootstrapIfMissing(context.Background())
	assert.False(t, created)
	assert.Empty(t, f.store.Current().Organizations)
	assert.Equal(t, token, f.store.Current().AccessToken)
}

func TestBootstrapStopsOnOtherErrors(t *testing.T) {
	t.Parallel()

	token := userToken(t, "u1", "", time.Hour)
	f := newResolverFixture(t, domain.Snapshot{AccessToken: token, UserID: "u1", Username: "ada"})

	f.orgs.EXPECT().Create(mockAnyContext(), token, "ada's Org", "ada", "u1").
		Return(domain.OrganizationSummary{}, &domain.NetworkError{Status: http.StatusForbidden, Message: "org creation disabled"}).Once()

	_, created := f.resolver.BootstrapIfMissing(context.Background())
	assert.False(t, created)
}
