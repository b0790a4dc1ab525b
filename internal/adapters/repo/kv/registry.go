// Package kv keeps the account registry as one JSON document inside a
// KeyValueStore.
package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/entityauth/entitykit/internal/domain"
	"github.com/entityauth/entitykit/internal/ports"
)

const AccountsKey = "entitykit.accounts"

type Registry struct {
	store ports.KeyValueStore
	mu    sync.Mutex
}

var _ ports.AccountRegistry = (*Registry)(nil)

func NewRegistry(store ports.KeyValueStore) *Registry {
	return &Registry{store: store}
}

// List returns accounts in insertion order. A missing document is an empty
// registry.
func (r *Registry) List(ctx context.Context) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx)
}

// Upsert replaces the account with the same id in place or appends it.
func (r *Registry) Upsert(ctx context.Context, account domain.Account) error {
	if err := account.Validate(); err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}
	account.Normalize()

	r.mu.Lock()
	defer r.mu.Unlock()

	accounts, err := r.load(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range accounts {
		if accounts[i].ID == account.ID {
			accounts[i] = account
			replaced = true
			break
		}
	}
	if !replaced {
		accounts = append(accounts, account)
	}

	return r.save(ctx, accounts)
}

// Remove is a no-op for unknown ids.
func (r *Registry) Remove(ctx context.Context, id domain.AccountID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts, err := r.load(ctx)
	if err != nil {
		return err
	}

	kept := make([]domain.Account, 0, len(accounts))
	for _, account := range accounts {
		if account.ID != id {
			kept = append(kept, account)
		}
	}
	if len(kept) == len(accounts) {
		return nil
	}

	return r.save(ctx, kept)
}

func (r *Registry) ClearAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Delete(ctx, AccountsKey); err != nil {
		return &domain.StorageError{Op: "clear", Err: err}
	}

	return nil
}

func (r *Registry) load(ctx context.Context) ([]domain.Account, error) {
	blob, ok, err := r.store.Get(ctx, AccountsKey)
	if err != nil {
		return nil, &domain.StorageError{Op: "load", Err: err}
	}
	if !ok || blob == "" {
		return []domain.Account{}, nil
	}

	var records []accountRecord
	if err := json.Unmarshal([]byte(blob), &records); err != nil {
		return nil, &domain.StorageError{Op: "decode", Err: err}
	}

	accounts := make([]domain.Account, 0, len(records))
	for _, record := range records {
		accounts = append(accounts, fromRecord(record))
	}

	return accounts, nil
}

func (r *Registry) save(ctx context.Context, accounts []domain.Account) error {
	records := make([]accountRecord, 0, len(accounts))
	for _, account := range accounts {
		records = append(records, toRecord(account))
	}

	blob, err := json.Marshal(records)
	if err != nil {
		return &domain.StorageError{Op: "encode", Err: err}
	}

	if err := r.store.Set(ctx, AccountsKey, string(blob)); err != nil {
		return &domain.StorageError{Op: "persist", Err: err}
	}

	return nil
}
