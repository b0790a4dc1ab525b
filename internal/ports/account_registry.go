package ports

import (
	"context"

	"github.com/entityauth/entitykit/internal/domain"
)

// AccountRegistry persists the ordered list of accounts known on this device.
// Upsert replaces an existing entry in place and appends new ones.
type AccountRegistry interface {
	List(ctx context.Context) ([]domain.Account, error)
	Upsert(ctx context.Context, account domain.Account) error
	Remove(ctx context.Context, id domain.AccountID) error
	ClearAll(ctx context.Context) error
}
