package application

import (
	"strings"
	"time"

	"github.com/entityauth/entitykit/internal/domain"
)

// RemoteAccount is an account reported by the cloud account set.
type RemoteAccount struct {
	UserID            string
	Email             string
	Username          string
	ImageURL          string
	WorkspaceTenantID string
	Organizations     []domain.OrganizationSummary
	LastActiveAt      time.Time
}

func (r RemoteAccount) account(defaultTenant string) domain.Account {
	tenant := strings.TrimSpace(r.WorkspaceTenantID)
	if tenant == "" {
		tenant = defaultTenant
	}

	account := domain.Account{
		ID:                domain.NewAccountID(r.UserID, tenant),
		UserID:            r.UserID,
		Email:             r.Email,
		Username:          r.Username,
		ImageURL:          r.ImageURL,
		WorkspaceTenantID: tenant,
		Organizations:     domain.CloneOrganizations(r.Organizations),
		LastActiveAt:      r.LastActiveAt,
	}
	account.Normalize()

	return account
}
