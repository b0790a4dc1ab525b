package domain

import "time"

type OrganizationSummary struct {
	OrgID             string
	Name              string
	Slug              string
	MemberCount       *int
	Role              string
	JoinedAt          time.Time
	WorkspaceTenantID string
}

type ActiveOrganization struct {
	OrganizationSummary
	Description string
}

// DeriveActiveOrganization resolves the active organization from the access
// token's org claim against the cached organization list. It is the only way
// the active organization is computed.
//
// No claim yields nil. A claim that is not cached yields an ActiveOrganization
// carrying only the OrgID.
func DeriveActiveOrganization(accessToken string, organizations []OrganizationSummary) *ActiveOrganization {
	orgID := DecodeClaims(accessToken).OrganizationID()
	if orgID == "" {
		return nil
	}

	for _, org := range organizations {
		if org.OrgID == orgID {
			return &ActiveOrganization{OrganizationSummary: org.clone()}
		}
	}

	return &ActiveOrganization{OrganizationSummary: OrganizationSummary{OrgID: orgID}}
}

func (o OrganizationSummary) clone() OrganizationSummary {
	if o.MemberCount != nil {
		count := *o.MemberCount
		o.MemberCount = &count
	}

	return o
}

func (o *ActiveOrganization) Clone() *ActiveOrganization {
	if o == nil {
		return nil
	}

	cloned := *o
	cloned.OrganizationSummary = o.OrganizationSummary.clone()
	return &cloned
}

func CloneOrganizations(organizations []OrganizationSummary) []OrganizationSummary {
	if organizations == nil {
		return nil
	}

	cloned := make([]OrganizationSummary, len(organizations))
	for i, org := range organizations {
		cloned[i] = org.clone()
	}

	return cloned
}
