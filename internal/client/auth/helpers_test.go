package auth

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/osut/internal/client/api"
	"github.com/iudanet/osut/internal/client/apitest"
	"github.com/iudanet/osut/internal/client/resources"
	"github.com/iudanet/osut/internal/client/storage"
	"github.com/iudanet/osut/internal/client/storage/boltdb"
	"github.com/iudanet/osut/internal/models"
	pkgapi "github.com/iudanet/osut/pkg/api"
)

// memStorage - storage.TokenStorage в памяти с управляемыми ошибками
type memStorage struct {
	saveErr  error
	loadErr  error
	clearErr error
	pair     *models.TokenPair
	onSave   func(models.TokenPair)
	saves    int
	clears   int
	mu       sync.Mutex
}

func (m *memStorage) SaveTokens(_ context.Context, pair models.TokenPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.onSave != nil {
		m.onSave(pair)
	}
	m.saves++
	m.pair = &pair
	return nil
}

func (m *memStorage) LoadTokens(context.Context) (*models.TokenPair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.pair == nil {
		return nil, storage.ErrTokensNotFound
	}
	cp := *m.pair
	return &cp, nil
}

func (m *memStorage) ClearTokens(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	if m.clearErr != nil {
		return m.clearErr
	}
	m.pair = nil
	return nil
}

func (m *memStorage) stored() *models.TokenPair {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pair
}

// stack - клиент целиком: хранилище, конвейер, refresh и Manager поверх тестового backend
type stack struct {
	backend   *apitest.Backend
	storage   storage.TokenStorage
	tokens    *TokenStore
	refresher *Refresher
	transport *api.Transport
	resources *resources.Client
	manager   *Manager
}

const (
	testUserID  = "u1"
	testIDToken = "google-id-token"
)

func testUser() pkgapi.User {
	return pkgapi.User{ID: testUserID, FirstName: "Ana", LastName: "Pop", Status: pkgapi.StatusMember}
}

func newBoltStorage(t *testing.T) *boltdb.Storage {
	t.Helper()
	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "tokens.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newStack(t *testing.T, persist storage.TokenStorage) *stack {
	t.Helper()

	backend := apitest.New()
	t.Cleanup(backend.Close)
	backend.AddUser(testIDToken, testUser())

	if persist == nil {
		persist = newBoltStorage(t)
	}

	logger := slog.New(slog.DiscardHandler)

	authClient, err := api.NewClient(backend.URL(), nil)
	require.NoError(t, err)

	tokens := NewTokenStore()
	refresher := NewRefresher(tokens, authClient, persist, logger)
	transport := api.NewTransport(nil, tokens, refresher, logger)
	res := resources.NewClient(backend.URL(), api.NewHTTPClient(transport, 5*time.Second))

	manager := NewManager(ManagerConfig{
		Tokens:    tokens,
		Storage:   persist,
		AuthAPI:   authClient,
		Profiles:  res,
		Refresher: refresher,
		Pipeline:  transport,
		Logger:    logger,
		DemoUser:  pkgapi.User{ID: "mock-user-1", FirstName: "Josan", LastName: "Member"},
	})
	t.Cleanup(manager.Close)

	return &stack{
		backend:   backend,
		storage:   persist,
		tokens:    tokens,
		refresher: refresher,
		transport: transport,
		resources: res,
		manager:   manager,
	}
}

// persistIssued выдает пару на backend и кладет ее в хранилище, как после прошлого запуска
func (s *stack) persistIssued(t *testing.T) models.TokenPair {
	t.Helper()
	issued := s.backend.IssuePair(testUserID)
	pair := models.TokenPair{AccessToken: issued.AccessToken, RefreshToken: issued.RefreshToken}
	require.NoError(t, s.storage.SaveTokens(context.Background(), pair))
	return pair
}
