package storage

import (
	"context"

	"github.com/iudanet/osut/internal/models"
)

// Ключи, под которыми хранятся токены. Оба ключа пишутся и читаются
// как одна логическая единица.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

// TokenStorage defines durable storage for the session token pair.
// This is the lowest storage layer - it stores values as-is
// (plaintext or already sealed by auth.EncryptedStorage).
type TokenStorage interface {
	// SaveTokens writes both tokens in a single transaction
	SaveTokens(ctx context.Context, pair models.TokenPair) error

	// LoadTokens reads both tokens in a single transaction.
	// Returns ErrTokensNotFound unless both tokens are present and non-empty.
	LoadTokens(ctx context.Context) (*models.TokenPair, error)

	// ClearTokens removes both tokens; clearing an empty store is not an error
	ClearTokens(ctx context.Context) error
}
