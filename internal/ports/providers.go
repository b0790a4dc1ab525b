package ports

import (
	"context"

	"github.com/entityauth/entitykit/internal/domain"
)

type AuthProvider interface {
	Register(ctx context.Context, registration domain.Registration) (domain.LoginResult, error)
	Login(ctx context.Context, credentials domain.Credentials) (domain.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error)
	Logout(ctx context.Context, sessionID string, refreshToken string) error
}

// OrganizationsProvider calls organization endpoints with an explicit access
// token so callers can wrap each call in a refresh-and-retry.
type OrganizationsProvider interface {
	List(ctx context.Context, accessToken string) ([]domain.OrganizationSummary, error)
	Create(ctx context.Context, accessToken string, name string, slug string, ownerID string) (domain.OrganizationSummary, error)
	// Switch makes orgID active for the session and returns the new access token.
	Switch(ctx context.Context, accessToken string, orgID string) (string, error)
}

type IdentityProvider interface {
	Me(ctx context.Context, accessToken string) (domain.Identity, error)
	UpdateUsername(ctx context.Context, accessToken string, username string) error
	UpdateEmail(ctx context.Context, accessToken string, email string) error
}

// RealtimeSource subscribes to server pushes for one signed-in session.
// The returned channel is closed when the subscription ends.
type RealtimeSource interface {
	Subscribe(ctx context.Context, userID string, sessionID string) (<-chan domain.RealtimeEvent, error)
}
