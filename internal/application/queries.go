package application

import "github.com/entityauth/entitykit/internal/domain"

// AccountSummary is an account as shown to callers, flagged when it belongs to
// the signed-in session.
type AccountSummary struct {
	domain.Account
	Active bool
}
