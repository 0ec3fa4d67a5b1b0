package boltdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	"github.com/iudanet/osut/internal/client/storage"
	"github.com/iudanet/osut/internal/models"
)

// создаём тестовое BoltDB хранилище с auth bucket
func createTestTokenStorage(t *testing.T) *Storage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "tokens_test.db")
	store, err := New(context.Background(), dbPath)
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return store
}

func TestStorage_SaveLoadClearTokens(t *testing.T) {
	ctx := context.Background()
	store := createTestTokenStorage(t)

	pair := models.TokenPair{AccessToken: "a1", RefreshToken: "r1"}

	// До сохранения токенов нет
	_, err := store.LoadTokens(ctx)
	assert.ErrorIs(t, err, storage.ErrTokensNotFound)

	require.NoError(t, store.SaveTokens(ctx, pair))

	got, err := store.LoadTokens(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, pair, *got)

	// Перезапись заменяет пару целиком
	next := models.TokenPair{AccessToken: "a2", RefreshToken: "r2"}
	require.NoError(t, store.SaveTokens(ctx, next))
	got, err = store.LoadTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, next, *got)

	require.NoError(t, store.ClearTokens(ctx))
	_, err = store.LoadTokens(ctx)
	assert.ErrorIs(t, err, storage.ErrTokensNotFound)

	// Повторная очистка пустого хранилища не ошибка
	assert.NoError(t, store.ClearTokens(ctx))
}

func TestStorage_SaveTokens_IncompletePair(t *testing.T) {
	ctx := context.Background()
	store := createTestTokenStorage(t)

	err := store.SaveTokens(ctx, models.TokenPair{AccessToken: "a1"})
	assert.Error(t, err)

	_, err = store.LoadTokens(ctx)
	assert.ErrorIs(t, err, storage.ErrTokensNotFound)
}

func TestStorage_LoadTokens_HalfWrittenPair(t *testing.T) {
	tests := []struct {
		name string
		key  []byte
	}{
		{name: "only access token", key: keyAccess},
		{name: "only refresh token", key: keyRefresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := createTestTokenStorage(t)

			// Имитируем сбой между записью двух ключей
			err := store.db.Update(func(tx *bbolt.Tx) error {
				return tx.Bucket(bucketAuth).Put(tt.key, []byte("value"))
			})
			require.NoError(t, err)

			_, err = store.LoadTokens(ctx)
			assert.ErrorIs(t, err, storage.ErrTokensNotFound)
		})
	}
}

func TestStorage_BucketMissing(t *testing.T) {
	ctx := context.Background()
	store := createTestTokenStorage(t)

	// Удаляем bucket auth напрямую
	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket(bucketAuth)
	})
	require.NoError(t, err)

	err = store.SaveTokens(ctx, models.TokenPair{AccessToken: "a", RefreshToken: "r"})
	assert.ErrorContains(t, err, "auth bucket not found")

	_, err = store.LoadTokens(ctx)
	assert.ErrorContains(t, err, "auth bucket not found")

	err = store.ClearTokens(ctx)
	assert.ErrorContains(t, err, "auth bucket not found")
}

func TestStorage_Closed(t *testing.T) {
	ctx := context.Background()
	store, err := New(ctx, filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	err = store.SaveTokens(ctx, models.TokenPair{AccessToken: "a", RefreshToken: "r"})
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = store.LoadTokens(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	assert.ErrorIs(t, store.ClearTokens(ctx), storage.ErrStorageClosed)
}
