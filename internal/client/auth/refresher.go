package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/iudanet/osut/internal/client/api"
	"github.com/iudanet/osut/internal/client/storage"
	"github.com/iudanet/osut/internal/models"
	pkgapi "github.com/iudanet/osut/pkg/api"
)

// RefreshAPI обменивает refresh token на новую пару
type RefreshAPI interface {
	Refresh(ctx context.Context, refreshToken string) (*pkgapi.TokenResponse, error)
}

// Subscriber получает каждую новую пару после того, как она сохранена и опубликована
type Subscriber func(ctx context.Context, pair models.TokenPair)

const refreshKey = "refresh"

// Refresher координирует обновление токенов: одновременные вызовы
// разделяют один запрос к backend и один результат.
type Refresher struct {
	tokens  *TokenStore
	api     RefreshAPI
	storage storage.TokenStorage
	logger  *slog.Logger
	subs    map[int]Subscriber
	group   singleflight.Group
	nextID  int
	mu      sync.Mutex
}

// Compile-time check that Refresher implements api.Refresher
var _ api.Refresher = (*Refresher)(nil)

// NewRefresher создает координатор; persist может быть nil (только память)
func NewRefresher(tokens *TokenStore, refreshAPI RefreshAPI, persist storage.TokenStorage, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		tokens:  tokens,
		api:     refreshAPI,
		storage: persist,
		logger:  logger,
		subs:    make(map[int]Subscriber),
	}
}

// Subscribe регистрирует получателя новых пар; возвращает функцию отписки
func (r *Refresher) Subscribe(fn Subscriber) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.subs[id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}

// Refresh обновляет пару токенов. Если обновление уже идет, вызов ждет его
// результата вместо нового запроса. Отмена ctx отпускает только этого
// вызывающего: общий запрос доводится до конца.
func (r *Refresher) Refresh(ctx context.Context) (models.TokenPair, error) {
	detached := context.WithoutCancel(ctx)
	ch := r.group.DoChan(refreshKey, func() (any, error) {
		return r.refresh(detached)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return models.TokenPair{}, res.Err
		}
		return res.Val.(models.TokenPair), nil
	case <-ctx.Done():
		return models.TokenPair{}, ctx.Err()
	}
}

func (r *Refresher) refresh(ctx context.Context) (models.TokenPair, error) {
	current := r.tokens.load()
	if current == nil || current.RefreshToken == "" {
		return models.TokenPair{}, ErrMissingRefreshToken
	}

	resp, err := r.api.Refresh(ctx, current.RefreshToken)
	if err != nil {
		if api.IsRejected(err) {
			return models.TokenPair{}, fmt.Errorf("%w: %w", ErrRefreshRejected, err)
		}
		return models.TokenPair{}, fmt.Errorf("failed to refresh tokens: %w", err)
	}
	if resp.AccessToken == "" {
		return models.TokenPair{}, fmt.Errorf("%w: response has no access token", ErrRefreshRejected)
	}

	fresh := models.TokenPair{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	// Сервер без ротации не возвращает refresh token - старый остается в силе
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = current.RefreshToken
	}

	// Пока шел запрос, сессию могли завершить или заменить новым входом
	if r.tokens.load() != current {
		return r.superseded(ctx)
	}

	if r.storage != nil {
		if err := r.storage.SaveTokens(ctx, fresh); err != nil {
			return models.TokenPair{}, fmt.Errorf("failed to persist refreshed tokens: %w", err)
		}
	}

	if !r.tokens.swap(current, fresh) {
		return r.superseded(ctx)
	}

	r.logger.Debug("tokens refreshed")
	r.notify(ctx, fresh)

	return fresh, nil
}

// superseded отбрасывает результат refresh, устаревший из-за logout, демо-режима
// или нового входа. Новая сессия остается нетронутой, а ее пара возвращается
// вызывающим для повтора запроса.
func (r *Refresher) superseded(ctx context.Context) (models.TokenPair, error) {
	now := r.tokens.load()
	if now != nil {
		if r.storage != nil {
			// Пара refresh могла перезаписать в хранилище пару нового входа
			if err := r.storage.SaveTokens(ctx, *now); err != nil {
				r.logger.Warn("failed to restore current session tokens", "error", err)
			}
		}
		r.logger.Debug("discarding stale refresh result, session was replaced")
		return *now, nil
	}

	// Завершенная сессия не должна воскреснуть после перезапуска
	if r.storage != nil {
		if err := r.storage.ClearTokens(ctx); err != nil && !errors.Is(err, storage.ErrStorageClosed) {
			r.logger.Warn("failed to discard refreshed tokens", "error", err)
		}
	}
	r.logger.Debug("discarding stale refresh result, session ended")
	return models.TokenPair{}, api.ErrSessionEnded
}

func (r *Refresher) notify(ctx context.Context, pair models.TokenPair) {
	r.mu.Lock()
	subs := make([]Subscriber, 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.mu.Unlock()

	for _, fn := range subs {
		fn(ctx, pair)
	}
}
