// Package app wires the client together: token storage, the refresh
// coordinator, the request pipeline, the session manager and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/osut/internal/client/api"
	"github.com/iudanet/osut/internal/client/auth"
	"github.com/iudanet/osut/internal/client/cli"
	"github.com/iudanet/osut/internal/client/config"
	"github.com/iudanet/osut/internal/client/fixtures"
	"github.com/iudanet/osut/internal/client/iocli"
	"github.com/iudanet/osut/internal/client/resources"
	"github.com/iudanet/osut/internal/client/storage"
	"github.com/iudanet/osut/internal/client/storage/boltdb"
	"github.com/iudanet/osut/internal/client/storage/sqlite"
)

// App - собранный клиент
type App struct {
	Session *auth.Manager
	Cli     *cli.Cli
	logger  *slog.Logger
	close   func() error
}

// New открывает хранилище и собирает зависимости. Сессия еще не восстановлена:
// вызывающий делает это через Bootstrap.
func New(ctx context.Context, cfg *config.Config, io iocli.IO, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	persist, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var tokenStorage storage.TokenStorage = persist
	if cfg.TokenPassphrase != "" {
		encrypted, err := auth.NewEncryptedStorage(persist, cfg.TokenPassphrase)
		if err != nil {
			_ = closeStorage()
			return nil, fmt.Errorf("failed to set up token encryption: %w", err)
		}
		tokenStorage = encrypted
	}

	tokens := auth.NewTokenStore()

	// Auth эндпоинты идут мимо конвейера: refresh не должен вызывать refresh
	authClient, err := api.NewClient(cfg.APIURL,
		api.NewHTTPClient(api.NewLoggingTransport(nil, logger), cfg.RequestTimeout))
	if err != nil {
		_ = closeStorage()
		return nil, err
	}

	refresher := auth.NewRefresher(tokens, authClient, tokenStorage, logger)
	pipeline := api.NewTransport(api.NewLoggingTransport(nil, logger), tokens, refresher, logger)

	demo := fixtures.NewStore()
	var backend resources.API = resources.NewClient(cfg.APIURL, api.NewHTTPClient(pipeline, cfg.RequestTimeout))
	if cfg.EnableMocks {
		logger.Info("mock mode enabled, resource calls are served from fixtures")
		backend = demo
	}

	session := auth.NewManager(auth.ManagerConfig{
		Tokens:    tokens,
		Storage:   tokenStorage,
		AuthAPI:   authClient,
		Profiles:  backend,
		Refresher: refresher,
		Pipeline:  pipeline,
		Logger:    logger,
		DemoUser:  fixtures.DemoPrincipal(),
	})

	return &App{
		Session: session,
		Cli:     cli.New(io, session, backend, demo, auth.NewTokenSource(tokens)),
		logger:  logger,
		close: func() error {
			session.Close()
			return closeStorage()
		},
	}, nil
}

// Run восстанавливает сессию и выполняет команду.
// Ошибка восстановления не фатальна: команда выполнится без сессии.
func (a *App) Run(ctx context.Context, args []string) error {
	if err := a.Session.Bootstrap(ctx); err != nil {
		a.logger.Warn("continuing without a stored session", "error", err)
	}
	return a.Cli.Run(ctx, args)
}

// Close закрывает хранилище
func (a *App) Close() error {
	return a.close()
}

type closableStorage interface {
	storage.TokenStorage
	Close() error
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.TokenStorage, func() error, error) {
	var (
		store closableStorage
		err   error
	)

	switch cfg.StorageKind {
	case config.StorageSQLite:
		store, err = sqlite.New(ctx, cfg.DBPath)
	case config.StorageBolt, "":
		store, err = boltdb.New(ctx, cfg.DBPath)
	default:
		return nil, nil, fmt.Errorf("unknown storage %q", cfg.StorageKind)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open token storage: %w", err)
	}

	return store, func() error {
		if err := store.Close(); err != nil && !errors.Is(err, storage.ErrStorageClosed) {
			return fmt.Errorf("failed to close token storage: %w", err)
		}
		return nil
	}, nil
}
