package auth

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/iudanet/osut/internal/client/storage"
	"github.com/iudanet/osut/internal/crypto"
	"github.com/iudanet/osut/internal/models"
)

// EncryptedStorage шифрует токены перед записью в нижележащее хранилище.
// Каждое значение хранится как base64(salt || nonce || ciphertext),
// ключ выводится из пароля через Argon2id.
type EncryptedStorage struct {
	next       storage.TokenStorage
	passphrase string
	salt       []byte
	key        []byte
	mu         sync.Mutex
}

// Compile-time check that EncryptedStorage implements storage.TokenStorage
var _ storage.TokenStorage = (*EncryptedStorage)(nil)

// NewEncryptedStorage оборачивает next; пустой пароль недопустим
func NewEncryptedStorage(next storage.TokenStorage, passphrase string) (*EncryptedStorage, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("token passphrase is empty")
	}

	salt, err := crypto.GenerateSalt()
	if err != nil {
		return nil, err
	}

	key, err := crypto.DeriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}

	return &EncryptedStorage{
		next:       next,
		passphrase: passphrase,
		salt:       salt,
		key:        key,
	}, nil
}

// SaveTokens шифрует оба токена и сохраняет их одной записью
func (s *EncryptedStorage) SaveTokens(ctx context.Context, pair models.TokenPair) error {
	access, err := s.seal(pair.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt access token: %w", err)
	}
	refresh, err := s.seal(pair.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt refresh token: %w", err)
	}

	return s.next.SaveTokens(ctx, models.TokenPair{AccessToken: access, RefreshToken: refresh})
}

// LoadTokens читает и расшифровывает пару
func (s *EncryptedStorage) LoadTokens(ctx context.Context) (*models.TokenPair, error) {
	sealed, err := s.next.LoadTokens(ctx)
	if err != nil {
		return nil, err
	}

	access, err := s.open(sealed.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token: %w", err)
	}
	refresh, err := s.open(sealed.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt refresh token: %w", err)
	}

	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ClearTokens удаляет пару из нижележащего хранилища
func (s *EncryptedStorage) ClearTokens(ctx context.Context) error {
	return s.next.ClearTokens(ctx)
}

func (s *EncryptedStorage) seal(value string) (string, error) {
	if value == "" {
		return "", nil
	}

	s.mu.Lock()
	salt, key := s.salt, s.key
	s.mu.Unlock()

	sealed, err := crypto.Seal([]byte(value), key)
	if err != nil {
		return "", err
	}

	out := make([]byte, 0, len(salt)+len(sealed))
	out = append(out, salt...)
	out = append(out, sealed...)
	return base64.StdEncoding.EncodeToString(out), nil
}

func (s *EncryptedStorage) open(value string) (string, error) {
	if value == "" {
		return "", nil
	}

	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("invalid encoding: %w", err)
	}
	if len(raw) < crypto.SaltSize {
		return "", fmt.Errorf("sealed value is too short")
	}

	salt, sealed := raw[:crypto.SaltSize], raw[crypto.SaltSize:]
	key, err := s.keyFor(salt)
	if err != nil {
		return "", err
	}

	plaintext, err := crypto.Open(sealed, key)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// keyFor возвращает ключ для соли; значения от прошлых запусков несут свою соль
func (s *EncryptedStorage) keyFor(salt []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bytes.Equal(salt, s.salt) {
		return s.key, nil
	}

	key, err := crypto.DeriveKey(s.passphrase, salt)
	if err != nil {
		return nil, err
	}

	// Переходим на соль из хранилища, чтобы не выводить ключ на каждое чтение
	s.salt = append([]byte(nil), salt...)
	s.key = key
	return key, nil
}
