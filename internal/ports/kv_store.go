package ports

import "context"

// KeyValueStore is a small persistent string map. Get reports ok=false for
// missing keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
