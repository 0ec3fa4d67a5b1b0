package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/osut/internal/client/storage"
	"github.com/iudanet/osut/internal/models"
)

var (
	keyAccess  = []byte(storage.KeyAccessToken)
	keyRefresh = []byte(storage.KeyRefreshToken)
)

// SaveTokens stores both tokens in one bbolt transaction
func (s *Storage) SaveTokens(ctx context.Context, pair models.TokenPair) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if !pair.Valid() {
		return fmt.Errorf("token pair is incomplete")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return fmt.Errorf("auth bucket not found")
		}

		// Оба Put в одной транзакции: при сбое не останется половины пары
		if err := bucket.Put(keyAccess, []byte(pair.AccessToken)); err != nil {
			return fmt.Errorf("failed to save access token: %w", err)
		}
		if err := bucket.Put(keyRefresh, []byte(pair.RefreshToken)); err != nil {
			return fmt.Errorf("failed to save refresh token: %w", err)
		}

		return nil
	})
}

// LoadTokens retrieves stored tokens; a half-present pair is reported as not found
func (s *Storage) LoadTokens(ctx context.Context) (*models.TokenPair, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var pair *models.TokenPair

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return fmt.Errorf("auth bucket not found")
		}

		// Значения из bbolt валидны только внутри транзакции, поэтому копируем
		candidate := models.TokenPair{
			AccessToken:  string(bucket.Get(keyAccess)),
			RefreshToken: string(bucket.Get(keyRefresh)),
		}
		if !candidate.Valid() {
			return storage.ErrTokensNotFound
		}

		pair = &candidate
		return nil
	})

	if err != nil {
		return nil, err
	}

	return pair, nil
}

// ClearTokens removes both tokens (logout)
func (s *Storage) ClearTokens(ctx context.Context) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketAuth)
		if bucket == nil {
			return fmt.Errorf("auth bucket not found")
		}

		// Delete отсутствующего ключа в bbolt не является ошибкой
		if err := bucket.Delete(keyAccess); err != nil {
			return fmt.Errorf("failed to delete access token: %w", err)
		}
		if err := bucket.Delete(keyRefresh); err != nil {
			return fmt.Errorf("failed to delete refresh token: %w", err)
		}

		return nil
	})
}
