package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entityauth/entitykit/internal/domain"
)

const testKey = "entitykit/accounts/user:u1:tenant:default/access_token"

func TestStoreRejectsInvalidKeys(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	testCases := []struct {
		name    string
		key     string
		wantErr string
	}{
		{name: "empty", key: "", wantErr: "secret key is empty"},
		{name: "whitespace", key: "   ", wantErr: "secret key is empty"},
		{name: "absolute", key: "/absolute/path", wantErr: "invalid secret key"},
		{name: "traversal", key: "../escape", wantErr: "invalid secret key"},
		{name: "deep traversal", key: "../../secret", wantErr: "invalid secret key"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.Put(context.Background(), tc.key, "value")
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestStorePutGetRoundTripAndPermissions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)

	require.NoError(t, store.Put(context.Background(), testKey, "eyJ.access"))

	got, err := store.Get(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, "eyJ.access", got)

	info, err := os.Stat(filepath.Join(root, testKey))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(secretFileMod), info.Mode().Perm())
}

func TestStorePutOverwritesWithoutLeavingTempFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)

	require.NoError(t, store.Put(context.Background(), testKey, "first"))
	require.NoError(t, store.Put(context.Background(), testKey, "second"))

	got, err := store.Get(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	entries, err := os.ReadDir(filepath.Dir(filepath.Join(root, testKey)))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "access_token", entries[0].Name())
}

func TestStoreGetMissingSecretIsNotFound(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	_, err := store.Get(context.Background(), testKey)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStoreDeleteIsIdempotentWhenSecretMissing(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	require.NoError(t, store.Put(context.Background(), testKey, "value"))

	require.NoError(t, store.Delete(context.Background(), testKey))
	require.NoError(t, store.Delete(context.Background(), testKey))

	_, err := store.Get(context.Background(), testKey)
	assert.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Put(ctx, testKey, "value"), context.Canceled)
	_, err := store.Get(ctx, testKey)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Delete(ctx, testKey), context.Canceled)
}
