package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/osut/internal/client/api"
	"github.com/iudanet/osut/internal/client/storage"
	"github.com/iudanet/osut/internal/models"
	pkgapi "github.com/iudanet/osut/pkg/api"
)

// AuthAPI - неаутентифицированные auth эндпоинты backend
type AuthAPI interface {
	Login(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

// ProfileFetcher загружает профиль пользователя через защищенный API
type ProfileFetcher interface {
	GetUser(ctx context.Context, id string) (*pkgapi.User, error)
}

// FailureNotifier сообщает о неустранимой ошибке refresh (Transport)
type FailureNotifier interface {
	OnRefreshFailure(fn func(ctx context.Context))
}

// ManagerConfig зависимости Manager
type ManagerConfig struct {
	Tokens    *TokenStore
	Storage   storage.TokenStorage
	AuthAPI   AuthAPI
	Profiles  ProfileFetcher
	Refresher *Refresher
	Pipeline  FailureNotifier
	Logger    *slog.Logger
	DemoUser  pkgapi.User
}

// Manager управляет жизненным циклом сессии: восстановление, вход, демо-режим,
// выход и загрузка профиля. Состояние защищено RWMutex, который никогда не
// удерживается во время сетевых запросов или обращений к хранилищу.
type Manager struct {
	tokens      *TokenStore
	storage     storage.TokenStorage
	authAPI     AuthAPI
	profiles    ProfileFetcher
	logger      *slog.Logger
	pair        *models.TokenPair
	principal   *pkgapi.User
	unsubscribe func()
	demoUser    pkgapi.User
	state       models.SessionState
	mu          sync.RWMutex
	loading     bool
}

// NewManager создает Manager в состоянии StateBootstrapping и подписывает его
// на новые пары от Refresher и на ошибки refresh от конвейера.
func NewManager(cfg ManagerConfig) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		tokens:   cfg.Tokens,
		storage:  cfg.Storage,
		authAPI:  cfg.AuthAPI,
		profiles: cfg.Profiles,
		logger:   logger,
		demoUser: cfg.DemoUser,
		state:    models.StateBootstrapping,
	}

	if cfg.Refresher != nil {
		m.unsubscribe = cfg.Refresher.Subscribe(m.onTokensRefreshed)
	}
	if cfg.Pipeline != nil {
		cfg.Pipeline.OnRefreshFailure(m.onRefreshFailure)
	}

	return m
}

// Close отписывает Manager от Refresher
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Bootstrap восстанавливает сессию из хранилища. Без сохраненной пары
// сессия становится неаутентифицированной; ошибка профиля не отменяет вход.
func (m *Manager) Bootstrap(ctx context.Context) error {
	m.mu.Lock()
	m.state = models.StateBootstrapping
	m.loading = true
	m.mu.Unlock()
	defer m.setLoading(false)

	pair, err := m.storage.LoadTokens(ctx)
	if err != nil {
		m.reset()
		if errors.Is(err, storage.ErrTokensNotFound) {
			m.logger.Debug("no stored session")
			return nil
		}
		m.logger.Warn("failed to restore session", "error", err)
		return fmt.Errorf("failed to restore session: %w", err)
	}

	m.adopt(*pair)
	m.logger.Info("session restored")

	_ = m.hydrate(ctx, pair.AccessToken)
	return nil
}

// Login обменивает identity token на пару токенов, сохраняет ее и загружает профиль.
// Пара публикуется только после успешной записи в хранилище.
func (m *Manager) Login(ctx context.Context, idToken string) (err error) {
	defer func() {
		if err != nil {
			m.settleUnauthenticated()
		}
	}()

	if idToken == "" {
		return fmt.Errorf("%w: identity token is empty", ErrAuthenticationFailed)
	}

	m.setLoading(true)
	defer m.setLoading(false)

	resp, err := m.authAPI.Login(ctx, pkgapi.LoginRequest{IDToken: idToken})
	if err != nil {
		if api.IsRejected(err) {
			return fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
		}
		return fmt.Errorf("login failed: %w", err)
	}

	pair := models.TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if !pair.Valid() {
		return fmt.Errorf("%w: server returned an incomplete token pair", ErrAuthenticationFailed)
	}

	if err := m.storage.SaveTokens(ctx, pair); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	m.adopt(pair)
	m.logger.Info("logged in")

	_ = m.hydrate(ctx, pair.AccessToken)
	return nil
}

// StartDemo включает локальный демо-режим с фиксированным пользователем.
// Токенов нет, запросы к backend в этом режиме не выполняются.
func (m *Manager) StartDemo() {
	demo := m.demoUser

	m.mu.Lock()
	m.tokens.Set(nil)
	m.pair = nil
	m.principal = &demo
	m.state = models.StateDemo
	m.mu.Unlock()

	m.logger.Info("demo mode started", "user_id", demo.ID)
}

// Logout уведомляет сервер (best effort), очищает память и хранилище.
// Повторный вызов безопасен.
func (m *Manager) Logout(ctx context.Context) error {
	if pair := m.tokens.Get(); pair != nil && pair.RefreshToken != "" {
		if err := m.authAPI.Logout(ctx, pair.RefreshToken); err != nil {
			m.logger.Warn("logout notification failed",
				"error", fmt.Errorf("%w: %w", ErrLogoutNotifyFailed, err))
		}
	}

	m.reset()

	if err := m.storage.ClearTokens(ctx); err != nil {
		return fmt.Errorf("failed to clear stored session: %w", err)
	}

	m.logger.Info("logged out")
	return nil
}

// RefreshProfile перезагружает профиль текущего пользователя.
// В демо-режиме и без сессии ничего не делает.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	m.mu.RLock()
	state := m.state
	pair := m.pair
	m.mu.RUnlock()

	if state != models.StateAuthenticated || pair == nil {
		return nil
	}

	return m.hydrate(ctx, pair.AccessToken)
}

// State возвращает текущее состояние сессии
func (m *Manager) State() models.SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsAuthenticated сообщает, есть ли access token или включен демо-режим
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == models.StateDemo || (m.pair != nil && m.pair.AccessToken != "")
}

// IsDemo сообщает, включен ли демо-режим
func (m *Manager) IsDemo() bool {
	return m.State() == models.StateDemo
}

// IsLoading сообщает, что идет Bootstrap или Login
func (m *Manager) IsLoading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Principal возвращает копию профиля текущего пользователя или nil
func (m *Manager) Principal() *pkgapi.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.principal == nil {
		return nil
	}
	cp := *m.principal
	return &cp
}

// Tokens возвращает копию текущей пары или nil
func (m *Manager) Tokens() *models.TokenPair {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.pair == nil {
		return nil
	}
	cp := *m.pair
	return &cp
}

func (m *Manager) adopt(pair models.TokenPair) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens.Set(&pair)
	m.pair = &pair
	m.principal = nil
	m.state = models.StateAuthenticated
}

func (m *Manager) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens.Set(nil)
	m.pair = nil
	m.principal = nil
	m.state = models.StateUnauthenticated
}

// settleUnauthenticated завершает состояние Bootstrapping после неудачного входа;
// действующую сессию не трогает
func (m *Manager) settleUnauthenticated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == models.StateBootstrapping {
		m.state = models.StateUnauthenticated
	}
}

func (m *Manager) setLoading(loading bool) {
	m.mu.Lock()
	m.loading = loading
	m.mu.Unlock()
}

// hydrate загружает профиль по sub из access token
func (m *Manager) hydrate(ctx context.Context, accessToken string) error {
	userID, err := SubjectID(accessToken)
	if err != nil {
		m.logger.Warn("cannot resolve user from access token", "error", err)
		return fmt.Errorf("%w: %w", ErrProfileFetchFailed, err)
	}

	user, err := m.profiles.GetUser(ctx, userID)
	if err != nil {
		m.logger.Warn("failed to fetch user profile", "user_id", userID, "error", err)
		return fmt.Errorf("%w: %w", ErrProfileFetchFailed, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Пока шел запрос, сессию могли завершить
	if m.state == models.StateAuthenticated {
		m.principal = user
	}
	return nil
}

func (m *Manager) onTokensRefreshed(_ context.Context, pair models.TokenPair) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == models.StateAuthenticated {
		m.pair = &pair
	}
}

// onRefreshFailure завершает сессию, когда refresh невозможен
func (m *Manager) onRefreshFailure(ctx context.Context) {
	m.logger.Warn("session expired, logging out")
	if err := m.Logout(context.WithoutCancel(ctx)); err != nil {
		m.logger.Error("failed to end expired session", "error", err)
	}
}
