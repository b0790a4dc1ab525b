package accounts

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entityauth/entitykit/internal/application"
	"github.com/entityauth/entitykit/internal/domain"
)

var renderNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func tokenExpiringAt(t *testing.T, exp time.Time, orgID string) string {
	t.Helper()

	claims := jwt.MapClaims{"sub": "u1", "exp": exp.Unix()}
	if orgID != "" {
		claims["oid"] = orgID
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestRenderAccountList(t *testing.T) {
	t.Parallel()

	output, err := Render([]application.AccountSummary{
		{
			Account: domain.Account{
				ID:                   domain.NewAccountID("u1", ""),
				UserID:               "u1",
				Username:             "grace",
				Email:                "grace@example.com",
				Mode:                 domain.AccountModeTeam,
				Organizations:        []domain.OrganizationSummary{{OrgID: "org_1", Name: "Acme"}},
				ActiveOrganizationID: "org_1",
				LastActiveAt:         renderNow.Add(-3 * time.Hour),
				HydratedOnThisDevice: true,
			},
			Active: true,
		},
		{
			Account: domain.Account{
				ID:           domain.NewAccountID("u2", "globex"),
				UserID:       "u2",
				Email:        "ada@example.com",
				Mode:         domain.AccountModePersonal,
				LastActiveAt: renderNow.Add(-49 * time.Hour),
			},
		},
	}, RenderOptions{Now: renderNow})

	require.NoError(t, err)
	assert.Contains(t, output, "accounts: 2")
	assert.Contains(t, output, "grace <grace@example.com>")
	assert.Contains(t, output, "(active)")
	assert.Contains(t, output, "user:u1:tenant:default")
	assert.Contains(t, output, "organization: Acme")
	assert.Contains(t, output, "mode: team")
	assert.Contains(t, output, "3 hours ago")
	assert.Contains(t, output, "ada@example.com")
	assert.Contains(t, output, "user:u2:tenant:globex")
	assert.Contains(t, output, "2 days ago")
	assert.Contains(t, output, "[sign in required on this device]")
}

func TestRenderEmptyAccountList(t *testing.T) {
	t.Parallel()

	output, err := Render(nil, RenderOptions{Now: renderNow})
	require.NoError(t, err)
	assert.Contains(t, output, "accounts: 0")
	assert.Contains(t, output, "No accounts on this device.")
}

func TestRenderSessionSignedOut(t *testing.T) {
	t.Parallel()

	output, err := RenderSession(domain.Snapshot{}, RenderOptions{Now: renderNow})
	require.NoError(t, err)
	assert.Contains(t, output, "Not signed in.")
}

func TestRenderSessionWithActiveOrganization(t *testing.T) {
	t.Parallel()

	members := 12
	organizations := []domain.OrganizationSummary{
		{OrgID: "org_1", Name: "Acme", Role: "owner", MemberCount: &members},
		{OrgID: "org_2", Name: "Globex"},
	}
	active := &domain.ActiveOrganization{OrganizationSummary: organizations[0], Description: "Rockets and more"}

	output, err := RenderSession(domain.Snapshot{
		AccessToken:        tokenExpiringAt(t, renderNow.Add(90*time.Minute), "org_1"),
		UserID:             "u1",
		Username:           "grace",
		Email:              "grace@example.com",
		Organizations:      organizations,
		ActiveOrganization: active,
	}, RenderOptions{Now: renderNow})

	require.NoError(t, err)
	assert.Contains(t, output, "user: u1")
	assert.Contains(t, output, "username: grace")
	assert.Contains(t, output, "mode: team")
	assert.Contains(t, output, "expires in 1 hour")
	assert.Contains(t, output, "organizations: 2")
	assert.Contains(t, output, "* Acme owner 12 members")
	assert.Contains(t, output, "Rockets and more")
	assert.Contains(t, output, "  Globex")
}

func TestRenderSessionFlagsExpiredToken(t *testing.T) {
	t.Parallel()

	output, err := RenderSession(domain.Snapshot{
		AccessToken: tokenExpiringAt(t, renderNow.Add(-time.Minute), ""),
		UserID:      "u1",
	}, RenderOptions{Now: renderNow})

	require.NoError(t, err)
	assert.Contains(t, output, "token: expired")
	assert.Contains(t, output, "mode: personal")
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: 30 * time.Second, want: "less than a minute"},
		{in: time.Minute, want: "1 minute"},
		{in: 59 * time.Minute, want: "59 minutes"},
		{in: 25 * time.Hour, want: "1 day"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.in))
	}
}
