package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/osut/internal/client/storage"
	"github.com/iudanet/osut/internal/models"
)

// SaveTokens stores both tokens in a single SQL transaction
func (s *Storage) SaveTokens(ctx context.Context, pair models.TokenPair) error {
	if !pair.Valid() {
		return fmt.Errorf("token pair is incomplete")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO auth_kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	now := time.Now().Unix()
	values := map[string]string{
		storage.KeyAccessToken:  pair.AccessToken,
		storage.KeyRefreshToken: pair.RefreshToken,
	}
	for key, value := range values {
		if _, err := tx.ExecContext(ctx, query, key, value, now); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tokens: %w", err)
	}

	return nil
}

// LoadTokens reads both tokens; a half-present pair is reported as not found
func (s *Storage) LoadTokens(ctx context.Context) (*models.TokenPair, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	access, err := getValue(ctx, tx, storage.KeyAccessToken)
	if err != nil {
		return nil, err
	}
	refresh, err := getValue(ctx, tx, storage.KeyRefreshToken)
	if err != nil {
		return nil, err
	}

	pair := models.TokenPair{AccessToken: access, RefreshToken: refresh}
	if !pair.Valid() {
		return nil, storage.ErrTokensNotFound
	}

	return &pair, nil
}

// ClearTokens removes both tokens (logout)
func (s *Storage) ClearTokens(ctx context.Context) error {
	query := `DELETE FROM auth_kv WHERE key IN (?, ?)`

	if _, err := s.db.ExecContext(ctx, query, storage.KeyAccessToken, storage.KeyRefreshToken); err != nil {
		return fmt.Errorf("failed to delete tokens: %w", err)
	}

	return nil
}

// getValue возвращает пустую строку, если ключ отсутствует
func getValue(ctx context.Context, tx *sql.Tx, key string) (string, error) {
	var value string

	err := tx.QueryRowContext(ctx, `SELECT value FROM auth_kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}

	return value, nil
}
