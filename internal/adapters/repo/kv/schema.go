package kv

import (
	"time"

	"github.com/entityauth/entitykit/internal/domain"
)

type accountRecord struct {
	AccountID            string               `json:"accountId"`
	UserID               string               `json:"userId"`
	Email                string               `json:"email,omitempty"`
	Username             string               `json:"username,omitempty"`
	ImageURL             string               `json:"imageUrl,omitempty"`
	WorkspaceTenantID    string               `json:"workspaceTenantId,omitempty"`
	Mode                 string               `json:"mode"`
	Organizations        []organizationRecord `json:"organizations"`
	ActiveOrganizationID string               `json:"activeOrganizationId,omitempty"`
	LastActiveAt         time.Time            `json:"lastActiveAt"`
	HydratedOnThisDevice bool                 `json:"hydratedOnThisDevice"`
}

type organizationRecord struct {
	OrgID             string    `json:"orgId"`
	Name              string    `json:"name,omitempty"`
	Slug              string    `json:"slug,omitempty"`
	MemberCount       *int      `json:"memberCount,omitempty"`
	Role              string    `json:"role"`
	JoinedAt          time.Time `json:"joinedAt"`
	WorkspaceTenantID string    `json:"workspaceTenantId,omitempty"`
}

func toRecord(account domain.Account) accountRecord {
	organizations := make([]organizationRecord, 0, len(account.Organizations))
	for _, org := range domain.CloneOrganizations(account.Organizations) {
		organizations = append(organizations, organizationRecord{
			OrgID:             org.OrgID,
			Name:              org.Name,
			Slug:              org.Slug,
			MemberCount:       org.MemberCount,
			Role:              org.Role,
			JoinedAt:          org.JoinedAt,
			WorkspaceTenantID: org.WorkspaceTenantID,
		})
	}

	return accountRecord{
		AccountID:            string(account.ID),
		UserID:               account.UserID,
		Email:                account.Email,
		Username:             account.Username,
		ImageURL:             account.ImageURL,
		WorkspaceTenantID:    account.WorkspaceTenantID,
		Mode:                 string(account.Mode),
		Organizations:        organizations,
		ActiveOrganizationID: account.ActiveOrganizationID,
		LastActiveAt:         account.LastActiveAt,
		HydratedOnThisDevice: account.HydratedOnThisDevice,
	}
}

func fromRecord(record accountRecord) domain.Account {
	var organizations []domain.OrganizationSummary
	if len(record.Organizations) > 0 {
		organizations = make([]domain.OrganizationSummary, 0, len(record.Organizations))
	}
	for _, org := range record.Organizations {
		organizations = append(organizations, domain.OrganizationSummary{
			OrgID:             org.OrgID,
			Name:              org.Name,
			Slug:              org.Slug,
			MemberCount:       org.MemberCount,
			Role:              org.Role,
			JoinedAt:          org.JoinedAt,
			WorkspaceTenantID: org.WorkspaceTenantID,
		})
	}

	account := domain.Account{
		ID:                   domain.AccountID(record.AccountID),
		UserID:               record.UserID,
		Email:                record.Email,
		Username:             record.Username,
		ImageURL:             record.ImageURL,
		WorkspaceTenantID:    record.WorkspaceTenantID,
		Organizations:        organizations,
		ActiveOrganizationID: record.ActiveOrganizationID,
		LastActiveAt:         record.LastActiveAt,
		HydratedOnThisDevice: record.HydratedOnThisDevice,
	}
	account.Normalize()

	return account
}
