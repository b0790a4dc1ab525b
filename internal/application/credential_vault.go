package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/entityauth/entitykit/internal/domain"
	"github.com/entityauth/entitykit/internal/ports"
)

const secretKeyPrefix = "entitykit/accounts"

// CredentialVault stores token bundles per account on top of a SecretStore.
type CredentialVault struct {
	store ports.SecretStore
}

func NewCredentialVault(store ports.SecretStore) *CredentialVault {
	return &CredentialVault{store: store}
}

func SecretKey(id domain.AccountID, tokenType domain.TokenType) string {
	return fmt.Sprintf("%s/%s/%s", secretKeyPrefix, id, tokenType)
}

// Get reports ok=false with a nil error when nothing is stored under the key.
func (v *CredentialVault) Get(ctx context.Context, id domain.AccountID, tokenType domain.TokenType) (string, bool, error) {
	key := SecretKey(id, tokenType)

	value, err := v.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return "", false, nil
		}
		return "", false, domain.NewVaultError("get", key, err)
	}
	if value == "" {
		return "", false, nil
	}

	return value, true, nil
}

// Set replaces the stored value. An empty value deletes the entry.
func (v *CredentialVault) Set(ctx context.Context, id domain.AccountID, tokenType domain.TokenType, value string) error {
	if value == "" {
		return v.Delete(ctx, id, tokenType)
	}

	if err := v.Delete(ctx, id, tokenType); err != nil {
		return err
	}

	key := SecretKey(id, tokenType)
	if err := v.store.Put(ctx, key, value); err != nil {
		return domain.NewVaultError("put", key, err)
	}

	return nil
}

// Delete succeeds when the entry is already absent.
func (v *CredentialVault) Delete(ctx context.Context, id domain.AccountID, tokenType domain.TokenType) error {
	key := SecretKey(id, tokenType)
	if err := v.store.Delete(ctx, key); err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
		return domain.NewVaultError("delete", key, err)
	}

	return nil
}

// LoadBundle fails with domain.ErrTokenBundleNotFound when the access token is
// missing, whatever else is stored for the account.
func (v *CredentialVault) LoadBundle(ctx context.Context, id domain.AccountID) (domain.TokenBundle, error) {
	accessToken, ok, err := v.Get(ctx, id, domain.TokenTypeAccess)
	if err != nil {
		return domain.TokenBundle{}, err
	}
	if !ok {
		return domain.TokenBundle{}, fmt.Errorf("account %q: %w", id, domain.ErrTokenBundleNotFound)
	}

	refreshToken, _, err := v.Get(ctx, id, domain.TokenTypeRefresh)
	if err != nil {
		return domain.TokenBundle{}, err
	}
	sessionID, _, err := v.Get(ctx, id, domain.TokenTypeSession)
	if err != nil {
		return domain.TokenBundle{}, err
	}

	return domain.TokenBundle{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    sessionID,
	}, nil
}

func (v *CredentialVault) StoreBundle(ctx context.Context, id domain.AccountID, bundle domain.TokenBundle) error {
	if bundle.AccessToken == "" {
		return errors.New("store token bundle: access token is empty")
	}

	// The access token goes last: a bundle only exists once it is written.
	entries := []struct {
		tokenType domain.TokenType
		value     string
	}{
		{domain.TokenTypeRefresh, bundle.RefreshToken},
		{domain.TokenTypeSession, bundle.SessionID},
		{domain.TokenTypeAccess, bundle.AccessToken},
	}
	for _, entry := range entries {
		if err := v.Set(ctx, id, entry.tokenType, entry.value); err != nil {
			return fmt.Errorf("store token bundle: %w", err)
		}
	}

	return nil
}

// DeleteBundle attempts every entry and joins the failures.
func (v *CredentialVault) DeleteBundle(ctx context.Context, id domain.AccountID) error {
	var errs []error
	for _, tokenType := range domain.TokenTypes {
		if err := v.Delete(ctx, id, tokenType); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
