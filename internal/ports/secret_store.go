package ports

import "context"

// SecretStore is a platform secure-storage backend. Get returns an error
// matching domain.ErrSecretNotFound when the key has no value.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
