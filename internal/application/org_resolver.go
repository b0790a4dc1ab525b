package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/entityauth/entitykit/internal/domain"
	"github.com/entityauth/entitykit/internal/ports"
	"github.com/entityauth/entitykit/internal/session"
)

const maxBootstrapAttempts = 10

// OrgResolver keeps the session's organization list and active organization
// in step with the server.
type OrgResolver struct {
	store     *session.Store
	refresher *TokenRefresher
	orgs      ports.OrganizationsProvider
	logger    *zap.Logger
}

func NewOrgResolver(store *session.Store, refresher *TokenRefresher, orgs ports.OrganizationsProvider, logger *zap.Logger) *OrgResolver {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OrgResolver{store: store, refresher: refresher, orgs: orgs, logger: logger}
}

// Load fetches the organization list and re-derives the active organization.
func (r *OrgResolver) Load(ctx context.Context) error {
	batch := r.store.Begin()
	defer batch.End()

	var organizations []domain.OrganizationSummary
	err := r.refresher.Do(ctx, func(ctx context.Context, accessToken string) error {
		var err error
		organizations, err = r.orgs.List(ctx, accessToken)
		return err
	})
	if err != nil {
		return fmt.Errorf("list organizations: %w", err)
	}

	return batch.Apply(func(s *domain.Snapshot) {
		s.Organizations = domain.CloneOrganizations(organizations)
		s.ActiveOrganization = deriveKeepingDescription(s.AccessToken, s.Organizations, s.ActiveOrganization)
	})
}

// BootstrapIfMissing creates a first organization when the session has none
// and switches to it. Failures are logged and never returned so they cannot
// block sign-in. The created organization is returned when one was made.
func (r *OrgResolver) BootstrapIfMissing(ctx context.Context) (domain.OrganizationSummary, bool) {
	batch := r.store.Begin()
	defer batch.End()

	current := r.store.Current()
	if !current.SignedIn() || len(current.Organizations) > 0 {
		return domain.OrganizationSummary{}, false
	}

	base := domain.OrganizationBaseName(current.Username, current.Email)
	name := domain.OrganizationDisplayName(base)
	slug := domain.Slugify(base)

	for attempt := 1; attempt <= maxBootstrapAttempts; attempt++ {
		candidate := domain.SlugAttempt(slug, attempt)

		var created domain.OrganizationSummary
		err := r.refresher.Do(ctx, func(ctx context.Context, accessToken string) error {
			var err error
			created, err = r.orgs.Create(ctx, accessToken, name, candidate, current.UserID)
			return err
		})
		if err == nil {
			if err := r.adopt(ctx, batch, created); err != nil {
				r.logger.Warn("adopt bootstrap organization failed", zap.String("org_id", created.OrgID), zap.Error(err))
			}
			return created, true
		}
		if !domain.IsSlugCollision(err) {
			r.logger.Warn("bootstrap organization failed", zap.String("slug", candidate), zap.Error(err))
			return domain.OrganizationSummary{}, false
		}

		r.logger.Debug("bootstrap organization slug taken", zap.String("slug", candidate), zap.Int("attempt", attempt))
	}

	r.logger.Warn("bootstrap organization gave up", zap.String("slug", slug), zap.Int("attempts", maxBootstrapAttempts))
	return domain.OrganizationSummary{}, false
}

func (r *OrgResolver) adopt(ctx context.Context, batch *session.Batch, created domain.OrganizationSummary) error {
	err := batch.Apply(func(s *domain.Snapshot) {
		s.Organizations = append(s.Organizations, created)
		s.ActiveOrganization = deriveKeepingDescription(s.AccessToken, s.Organizations, s.ActiveOrganization)
	})
	if err != nil {
		return err
	}

	return r.Switch(ctx, created.OrgID)
}

// Switch makes orgID the session's active organization. The server issues a
// new access token whose claim is the source of the active organization.
func (r *OrgResolver) Switch(ctx context.Context, orgID string) error {
	batch := r.store.Begin()
	defer batch.End()

	var accessToken string
	err := r.refresher.Do(ctx, func(ctx context.Context, token string) error {
		var err error
		accessToken, err = r.orgs.Switch(ctx, token, orgID)
		return err
	})
	if err != nil {
		return fmt.Errorf("switch organization %q: %w", orgID, err)
	}

	return batch.Apply(func(s *domain.Snapshot) {
		s.AccessToken = accessToken
		s.ActiveOrganization = deriveKeepingDescription(accessToken, s.Organizations, s.ActiveOrganization)
	})
}
