package app

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/osut/internal/client/apitest"
	"github.com/iudanet/osut/internal/client/config"
	"github.com/iudanet/osut/internal/client/iocli"
	"github.com/iudanet/osut/internal/models"
	pkgapi "github.com/iudanet/osut/pkg/api"
)

func testConfig(t *testing.T, apiURL, storageKind string) *config.Config {
	t.Helper()
	return &config.Config{
		APIURL:         apiURL,
		StorageKind:    storageKind,
		DBPath:         filepath.Join(t.TempDir(), "osut.db"),
		RequestTimeout: 5 * time.Second,
		LogLevel:       slog.LevelDebug,
	}
}

func newTestApp(t *testing.T, cfg *config.Config) (*App, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	a, err := New(context.Background(), cfg, iocli.NewStream(strings.NewReader(""), out), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return a, out
}

// Демо-сессия не обращается к серверу
func TestApp_DemoDashboard(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1", config.StorageBolt)
	a, out := newTestApp(t, cfg)
	defer func() { require.NoError(t, a.Close()) }()

	require.NoError(t, a.Run(context.Background(), []string{"demo"}))

	assert.Equal(t, models.StateDemo, a.Session.State())
	assert.Contains(t, out.String(), "Community Cleanup")
	assert.Contains(t, out.String(), "Josan Member")
}

func TestApp_RequiresLogin(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1", config.StorageBolt)
	a, _ := newTestApp(t, cfg)
	defer func() { require.NoError(t, a.Close()) }()

	err := a.Run(context.Background(), []string{"events"})
	assert.Error(t, err)
	assert.Equal(t, models.StateUnauthenticated, a.Session.State())
}

// Сессия переживает перезапуск и продолжает работать после истечения access token
func TestApp_SessionAcrossRestarts(t *testing.T) {
	for _, kind := range []string{config.StorageBolt, config.StorageSQLite} {
		t.Run(kind, func(t *testing.T) {
			backend := apitest.New()
			t.Cleanup(backend.Close)
			backend.AddUser("id-token", pkgapi.User{ID: "u1", FirstName: "Ana", LastName: "Pop", Status: pkgapi.StatusMember})

			cfg := testConfig(t, backend.URL(), kind)
			cfg.TokenPassphrase = "passphrase"
			ctx := context.Background()

			first, out := newTestApp(t, cfg)
			require.NoError(t, first.Run(ctx, []string{"login", "--id-token", "id-token"}))
			assert.Contains(t, out.String(), "Signed in as Ana Pop")
			require.NoError(t, first.Close())

			backend.ExpireAccessTokens()

			second, out := newTestApp(t, cfg)
			defer func() { require.NoError(t, second.Close()) }()

			require.NoError(t, second.Run(ctx, []string{"users"}))
			assert.Contains(t, out.String(), "Ana Pop")
			assert.Equal(t, 1, backend.RefreshCalls())
			assert.Equal(t, models.StateAuthenticated, second.Session.State())

			require.NoError(t, second.Run(ctx, []string{"logout"}))
			assert.Equal(t, 1, backend.LogoutCalls())
		})
	}
}

func TestApp_MockMode(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1", config.StorageBolt)
	cfg.EnableMocks = true
	a, out := newTestApp(t, cfg)
	defer func() { require.NoError(t, a.Close()) }()

	// Без сессии ресурсные команды недоступны даже в mock-режиме
	require.Error(t, a.Run(context.Background(), []string{"departments"}))

	require.NoError(t, a.Run(context.Background(), []string{"demo", "departments"}))
	assert.Contains(t, out.String(), "Polihack")
}

func TestNew_UnknownStorage(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1", "redis")
	_, err := New(context.Background(), cfg, iocli.NewStream(strings.NewReader(""), &bytes.Buffer{}), nil)
	assert.Error(t, err)
}
