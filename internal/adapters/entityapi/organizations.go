package entityapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/entityauth/entitykit/internal/domain"
	"github.com/entityauth/entitykit/internal/ports"
)

type Organizations struct {
	client *Client
}

var _ ports.OrganizationsProvider = (*Organizations)(nil)

type organizationPayload struct {
	OrgID             string    `json:"orgId"`
	Name              string    `json:"name"`
	Slug              string    `json:"slug"`
	MemberCount       *int      `json:"memberCount,omitempty"`
	Role              string    `json:"role,omitempty"`
	JoinedAt          time.Time `json:"joinedAt,omitzero"`
	WorkspaceTenantID string    `json:"workspaceTenantId,omitempty"`
}

func (p organizationPayload) summary() domain.OrganizationSummary {
	return domain.OrganizationSummary{
		OrgID:             p.OrgID,
		Name:              p.Name,
		Slug:              p.Slug,
		MemberCount:       p.MemberCount,
		Role:              p.Role,
		JoinedAt:          p.JoinedAt,
		WorkspaceTenantID: p.WorkspaceTenantID,
	}
}

func (o *Organizations) List(ctx context.Context, accessToken string) ([]domain.OrganizationSummary, error) {
	var resp struct {
		Organizations []organizationPayload `json:"organizations"`
	}
	if err := o.client.do(ctx, http.MethodGet, "/orgs", accessToken, nil, &resp); err != nil {
		return nil, err
	}

	organizations := make([]domain.OrganizationSummary, 0, len(resp.Organizations))
	for _, payload := range resp.Organizations {
		organizations = append(organizations, payload.summary())
	}

	return organizations, nil
}

func (o *Organizations) Create(ctx context.Context, accessToken string, name string, slug string, ownerID string) (domain.OrganizationSummary, error) {
	body := map[string]string{
		"name":    name,
		"slug":    slug,
		"ownerId": ownerID,
	}

	var resp organizationPayload
	if err := o.client.do(ctx, http.MethodPost, "/orgs", accessToken, body, &resp); err != nil {
		return domain.OrganizationSummary{}, err
	}
	if resp.OrgID == "" {
		return domain.OrganizationSummary{}, &domain.DecodingError{What: "create organization response", Err: errors.New("org id is missing")}
	}

	return resp.summary(), nil
}

func (o *Organizations) Switch(ctx context.Context, accessToken string, orgID string) (string, error) {
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := o.client.do(ctx, http.MethodPost, "/orgs/switch", accessToken, map[string]string{"orgId": orgID}, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", &domain.DecodingError{What: "switch organization response", Err: errors.New("access token is missing")}
	}

	return resp.AccessToken, nil
}
