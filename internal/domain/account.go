package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTenant is the tenant segment used in account ids when no workspace
// tenant is configured.
const DefaultTenant = "default"

type AccountID string

type AccountMode string

const (
	AccountModePersonal AccountMode = "personal"
	AccountModeTeam     AccountMode = "team"
)

type Account struct {
	ID                   AccountID
	UserID               string
	Email                string
	Username             string
	ImageURL             string
	WorkspaceTenantID    string
	Mode                 AccountMode
	Organizations        []OrganizationSummary
	ActiveOrganizationID string
	LastActiveAt         time.Time
	HydratedOnThisDevice bool
}

// NewAccountID returns "user:<userID>:tenant:<tenantID>", with an empty tenant
// normalised to DefaultTenant. Every place that computes an account id must go
// through this function.
func NewAccountID(userID, tenantID string) AccountID {
	tenant := strings.TrimSpace(tenantID)
	if tenant == "" {
		tenant = DefaultTenant
	}

	return AccountID("user:" + userID + ":tenant:" + tenant)
}

func ModeFor(organizations []OrganizationSummary) AccountMode {
	if len(organizations) == 0 {
		return AccountModePersonal
	}

	return AccountModeTeam
}

func (a Account) Validate() error {
	if strings.TrimSpace(string(a.ID)) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(a.UserID) == "" {
		return fmt.Errorf("user id is required")
	}

	return nil
}

// Normalize recomputes derived fields. Registries call it on every upsert.
func (a *Account) Normalize() {
	if a == nil {
		return
	}

	a.Mode = ModeFor(a.Organizations)
}

// DisplayName picks the most human label available for the account.
func (a Account) DisplayName() string {
	switch {
	case strings.TrimSpace(a.Username) != "":
		return a.Username
	case strings.TrimSpace(a.Email) != "":
		return a.Email
	default:
		return a.UserID
	}
}

// MostRecentlyActive returns the account with the latest LastActiveAt. Ties
// keep the earlier entry.
func MostRecentlyActive(accounts []Account) (Account, bool) {
	if len(accounts) == 0 {
		return Account{}, false
	}

	best := accounts[0]
	for _, account := range accounts[1:] {
		if account.LastActiveAt.After(best.LastActiveAt) {
			best = account
		}
	}

	return best, true
}
