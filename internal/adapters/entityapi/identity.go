package entityapi

import (
	"context"
	"net/http"

	"github.com/entityauth/entitykit/internal/domain"
	"github.com/entityauth/entitykit/internal/ports"
)

type Identity struct {
	client *Client
}

var _ ports.IdentityProvider = (*Identity)(nil)

func (i *Identity) Me(ctx context.Context, accessToken string) (domain.Identity, error) {
	var resp struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Username string `json:"username"`
		ImageURL string `json:"imageUrl"`
	}
	if err := i.client.do(ctx, http.MethodGet, "/users/me", accessToken, nil, &resp); err != nil {
		return domain.Identity{}, err
	}

	return domain.Identity{
		ID:       resp.ID,
		Email:    resp.Email,
		Username: resp.Username,
		ImageURL: resp.ImageURL,
	}, nil
}

func (i *Identity) UpdateUsername(ctx context.Context, accessToken string, username string) error {
	return i.client.do(ctx, http.MethodPatch, "/users/me", accessToken, map[string]string{"username": username}, nil)
}

func (i *Identity) UpdateEmail(ctx context.Context, accessToken string, email string) error {
	return i.client.do(ctx, http.MethodPatch, "/users/me", accessToken, map[string]string{"email": email}, nil)
}
