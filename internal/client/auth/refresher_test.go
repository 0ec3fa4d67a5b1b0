package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/osut/internal/client/api"
	"github.com/iudanet/osut/internal/client/storage"
	"github.com/iudanet/osut/internal/models"
	pkgapi "github.com/iudanet/osut/pkg/api"
)

// fakeRefreshAPI отвечает заданной функцией и считает вызовы
type fakeRefreshAPI struct {
	fn    func(ctx context.Context, refreshToken string) (*pkgapi.TokenResponse, error)
	calls atomic.Int32
}

func (f *fakeRefreshAPI) Refresh(ctx context.Context, refreshToken string) (*pkgapi.TokenResponse, error) {
	f.calls.Add(1)
	return f.fn(ctx, refreshToken)
}

func rotating() *fakeRefreshAPI {
	var n atomic.Int32
	return &fakeRefreshAPI{fn: func(context.Context, string) (*pkgapi.TokenResponse, error) {
		i := n.Add(1)
		return &pkgapi.TokenResponse{
			AccessToken:  fmt.Sprintf("access-%d", i),
			RefreshToken: fmt.Sprintf("refresh-%d", i),
		}, nil
	}}
}

func newTestRefresher(t *testing.T, fake RefreshAPI, persist *memStorage) (*Refresher, *TokenStore) {
	t.Helper()
	tokens := NewTokenStore()
	tokens.Set(&models.TokenPair{AccessToken: "access-0", RefreshToken: "refresh-0"})

	// nil *memStorage не должен превратиться в непустой интерфейс
	var st storage.TokenStorage
	if persist != nil {
		st = persist
	}
	return NewRefresher(tokens, fake, st, slog.New(slog.DiscardHandler)), tokens
}

func TestRefresher_MissingRefreshToken(t *testing.T) {
	fake := rotating()
	r := NewRefresher(NewTokenStore(), fake, nil, nil)

	_, err := r.Refresh(context.Background())
	require.ErrorIs(t, err, ErrMissingRefreshToken)
	assert.Zero(t, fake.calls.Load())
}

// Порядок: сохранить, опубликовать, оповестить
func TestRefresher_PersistPublishNotify(t *testing.T) {
	persist := &memStorage{}
	fake := rotating()
	r, tokens := newTestRefresher(t, fake, persist)

	persist.onSave = func(pair models.TokenPair) {
		assert.Equal(t, "access-1", pair.AccessToken)
		assert.Equal(t, "access-0", tokens.Get().AccessToken, "published before persisted")
	}

	var notified []models.TokenPair
	r.Subscribe(func(_ context.Context, pair models.TokenPair) {
		assert.Equal(t, pair, *tokens.Get(), "notified before published")
		notified = append(notified, pair)
	})

	pair, err := r.Refresh(context.Background())
	require.NoError(t, err)

	want := models.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-1"}
	assert.Equal(t, want, pair)
	assert.Equal(t, want, *tokens.Get())
	assert.Equal(t, want, *persist.stored())
	assert.Equal(t, []models.TokenPair{want}, notified)
}

func TestRefresher_KeepsRefreshTokenWithoutRotation(t *testing.T) {
	fake := &fakeRefreshAPI{fn: func(_ context.Context, refreshToken string) (*pkgapi.TokenResponse, error) {
		assert.Equal(t, "refresh-0", refreshToken)
		return &pkgapi.TokenResponse{AccessToken: "access-1"}, nil
	}}
	r, tokens := newTestRefresher(t, fake, nil)

	pair, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.TokenPair{AccessToken: "access-1", RefreshToken: "refresh-0"}, pair)
	assert.Equal(t, pair, *tokens.Get())
}

func TestRefresher_Rejected(t *testing.T) {
	fake := &fakeRefreshAPI{fn: func(context.Context, string) (*pkgapi.TokenResponse, error) {
		return nil, &api.StatusError{StatusCode: http.StatusUnauthorized, Message: "invalid refresh token"}
	}}
	persist := &memStorage{}
	r, tokens := newTestRefresher(t, fake, persist)

	_, err := r.Refresh(context.Background())
	require.ErrorIs(t, err, ErrRefreshRejected)
	assert.True(t, api.IsUnauthorized(err))

	// Отказ не трогает пару: ее завершает Manager
	assert.Equal(t, "access-0", tokens.Get().AccessToken)
	assert.Zero(t, persist.saves)
}

func TestRefresher_EmptyAccessTokenRejected(t *testing.T) {
	fake := &fakeRefreshAPI{fn: func(context.Context, string) (*pkgapi.TokenResponse, error) {
		return &pkgapi.TokenResponse{RefreshToken: "refresh-1"}, nil
	}}
	r, _ := newTestRefresher(t, fake, nil)

	_, err := r.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrRefreshRejected)
}

func TestRefresher_TransportError(t *testing.T) {
	boom := errors.New("connection reset")
	fake := &fakeRefreshAPI{fn: func(context.Context, string) (*pkgapi.TokenResponse, error) {
		return nil, boom
	}}
	r, _ := newTestRefresher(t, fake, nil)

	_, err := r.Refresh(context.Background())
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrRefreshRejected)
}

func TestRefresher_PersistFailureLeavesPairUnchanged(t *testing.T) {
	persist := &memStorage{saveErr: errors.New("disk full")}
	r, tokens := newTestRefresher(t, rotating(), persist)

	notified := false
	r.Subscribe(func(context.Context, models.TokenPair) { notified = true })

	_, err := r.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, "access-0", tokens.Get().AccessToken)
	assert.False(t, notified)
}

// Logout во время refresh: новая пара не воскрешает сессию
func TestRefresher_LogoutDuringRefresh(t *testing.T) {
	persist := &memStorage{}
	var tokens *TokenStore
	fake := &fakeRefreshAPI{fn: func(context.Context, string) (*pkgapi.TokenResponse, error) {
		tokens.Set(nil)
		return &pkgapi.TokenResponse{AccessToken: "access-1", RefreshToken: "refresh-1"}, nil
	}}
	r, ts := newTestRefresher(t, fake, persist)
	tokens = ts

	notified := false
	r.Subscribe(func(context.Context, models.TokenPair) { notified = true })

	_, err := r.Refresh(context.Background())
	require.ErrorIs(t, err, api.ErrSessionEnded)
	assert.Nil(t, tokens.Get())
	assert.Nil(t, persist.stored())
	assert.Equal(t, 1, persist.clears)
	assert.False(t, notified)
}

// Вход, случившийся во время refresh, не затирается его результатом
func TestRefresher_LoginDuringRefresh(t *testing.T) {
	login := models.TokenPair{AccessToken: "login-access", RefreshToken: "login-refresh"}
	persist := &memStorage{}
	var tokens *TokenStore
	fake := &fakeRefreshAPI{fn: func(ctx context.Context, _ string) (*pkgapi.TokenResponse, error) {
		assert.NoError(t, persist.SaveTokens(ctx, login))
		tokens.Set(&login)
		return &pkgapi.TokenResponse{AccessToken: "access-1", RefreshToken: "refresh-1"}, nil
	}}
	r, ts := newTestRefresher(t, fake, persist)
	tokens = ts

	notified := false
	r.Subscribe(func(context.Context, models.TokenPair) { notified = true })

	got, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, login, got, "callers replay with the new session")
	assert.Equal(t, login, *tokens.Get())
	assert.Equal(t, login, *persist.stored())
	assert.Zero(t, persist.clears)
	assert.False(t, notified)
}

// Вход между записью refresh-пары и ее публикацией: в хранилище возвращается пара входа
func TestRefresher_LoginBetweenPersistAndPublish(t *testing.T) {
	login := models.TokenPair{AccessToken: "login-access", RefreshToken: "login-refresh"}
	persist := &memStorage{}
	r, tokens := newTestRefresher(t, rotating(), persist)
	persist.onSave = func(pair models.TokenPair) {
		if pair.AccessToken == "access-1" {
			tokens.Set(&login)
		}
	}

	got, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, login, got)
	assert.Equal(t, login, *tokens.Get())
	assert.Equal(t, login, *persist.stored())
	assert.Equal(t, 2, persist.saves)
	assert.Zero(t, persist.clears)
}

func TestRefresher_SingleFlight(t *testing.T) {
	release := make(chan struct{})
	fake := &fakeRefreshAPI{fn: func(context.Context, string) (*pkgapi.TokenResponse, error) {
		<-release
		return &pkgapi.TokenResponse{AccessToken: "access-1", RefreshToken: "refresh-1"}, nil
	}}
	r, _ := newTestRefresher(t, fake, &memStorage{})

	const callers = 8
	var wg, started sync.WaitGroup
	results := make([]models.TokenPair, callers)
	errs := make([]error, callers)

	for i := range callers {
		wg.Add(1)
		started.Add(1)
		go func() {
			defer wg.Done()
			started.Done()
			results[i], errs[i] = r.Refresh(context.Background())
		}()
	}

	// Даем всем вызывающим встать в очередь за одним запросом
	started.Wait()
	require.Eventually(t, func() bool { return fake.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, fake.calls.Load())
	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, "access-1", results[i].AccessToken)
	}
}

// Отмена отпускает вызывающего, но общий refresh доводится до конца
func TestRefresher_CallerCancellation(t *testing.T) {
	release := make(chan struct{})
	fake := &fakeRefreshAPI{fn: func(ctx context.Context, _ string) (*pkgapi.TokenResponse, error) {
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &pkgapi.TokenResponse{AccessToken: "access-1", RefreshToken: "refresh-1"}, nil
	}}
	persist := &memStorage{}
	r, tokens := newTestRefresher(t, fake, persist)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	r.Subscribe(func(context.Context, models.TokenPair) { close(done) })

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer wg.Done()
		_, err := r.Refresh(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	}()

	require.Eventually(t, func() bool { return fake.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	wg.Wait()
	close(release)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("shared refresh was abandoned")
	}
	assert.Equal(t, "access-1", tokens.Get().AccessToken)
	assert.Equal(t, "access-1", persist.stored().AccessToken)
}

func TestRefresher_Unsubscribe(t *testing.T) {
	r, _ := newTestRefresher(t, rotating(), nil)

	var calls atomic.Int32
	unsubscribe := r.Subscribe(func(context.Context, models.TokenPair) { calls.Add(1) })

	_, err := r.Refresh(context.Background())
	require.NoError(t, err)
	unsubscribe()
	_, err = r.Refresh(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 1, calls.Load())
}
