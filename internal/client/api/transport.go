package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/iudanet/osut/internal/models"
)

// CredentialSource отдает текущую пару токенов (nil - токенов нет)
type CredentialSource interface {
	Get() *models.TokenPair
}

// Refresher обновляет пару токенов после отказа в авторизации
type Refresher interface {
	Refresh(ctx context.Context) (models.TokenPair, error)
}

type retriedKey struct{}

// WithRetried помечает контекст запроса как уже повторенного после refresh
func WithRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedKey{}, true)
}

// IsRetried сообщает, что запрос с этим контекстом уже повторялся
func IsRetried(ctx context.Context) bool {
	retried, _ := ctx.Value(retriedKey{}).(bool)
	return retried
}

// Transport - конвейер запросов к ресурсам backend.
// Подставляет bearer токен, а на 401 один раз обновляет пару токенов и
// повторяет исходный запрос.
type Transport struct {
	base      http.RoundTripper
	tokens    CredentialSource
	refresher Refresher
	logger    *slog.Logger
	onFailure []func(ctx context.Context)
	mu        sync.RWMutex
}

// Compile-time check that Transport implements http.RoundTripper
var _ http.RoundTripper = (*Transport)(nil)

// NewTransport создает конвейер поверх base (nil - http.DefaultTransport)
func NewTransport(base http.RoundTripper, tokens CredentialSource, refresher Refresher, logger *slog.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{
		base:      base,
		tokens:    tokens,
		refresher: refresher,
		logger:    logger,
	}
}

// OnRefreshFailure регистрирует обработчик неустранимой ошибки refresh.
// Обработчики вызываются до того, как вызывающий получит исходный 401.
func (t *Transport) OnRefreshFailure(fn func(ctx context.Context)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onFailure = append(t.onFailure, fn)
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out, injected, err := t.prepare(req)
	if err != nil {
		return nil, err
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized || IsRetried(req.Context()) {
		return resp, nil
	}

	pair := t.tokens.Get()
	if pair == nil || pair.RefreshToken == "" {
		return resp, nil
	}

	// Метка ставится до повторной отправки: второй 401 вернется как есть
	ctx := WithRetried(req.Context())

	accessToken := pair.AccessToken
	if injected == "" || injected == pair.AccessToken {
		fresh, err := t.refresher.Refresh(ctx)
		if err != nil {
			// Вызывающий отменил запрос: сессию не завершаем
			if ctxErr := req.Context().Err(); ctxErr != nil {
				drain(resp)
				return nil, ctxErr
			}
			if errors.Is(err, ErrSessionEnded) {
				t.logger.Debug("session ended during refresh, returning original response",
					"path", sanitizePath(req.URL.Path))
				return resp, nil
			}
			t.logger.Warn("token refresh failed, ending session",
				"method", req.Method,
				"path", sanitizePath(req.URL.Path),
				"error", err)
			t.notifyFailure(ctx)
			return resp, nil
		}
		accessToken = fresh.AccessToken
	} else {
		// Пару уже обновил параллельный запрос, пока этот был в полете
		t.logger.Debug("access token changed in flight, replaying without refresh",
			"path", sanitizePath(req.URL.Path))
	}

	retry, err := replay(ctx, out, accessToken)
	if err != nil {
		return resp, nil
	}
	drain(resp)

	return t.RoundTrip(retry)
}

// prepare клонирует запрос, подставляет bearer и делает тело повторяемым.
// Возвращает подставленный access token ("" - заголовок задал вызывающий).
func (t *Transport) prepare(req *http.Request) (*http.Request, string, error) {
	out := req.Clone(req.Context())

	var injected string
	if pair := t.tokens.Get(); pair != nil && pair.AccessToken != "" && out.Header.Get("Authorization") == "" {
		injected = pair.AccessToken
		out.Header.Set("Authorization", bearer(injected))
	}

	if out.Body != nil && out.Body != http.NoBody && out.GetBody == nil {
		body, err := io.ReadAll(out.Body)
		_ = out.Body.Close()
		if err != nil {
			return nil, "", fmt.Errorf("failed to buffer request body: %w", err)
		}
		out.Body = io.NopCloser(bytes.NewReader(body))
		out.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}

	return out, injected, nil
}

func (t *Transport) notifyFailure(ctx context.Context) {
	t.mu.RLock()
	handlers := append([]func(context.Context){}, t.onFailure...)
	t.mu.RUnlock()

	for _, fn := range handlers {
		fn(ctx)
	}
}

// replay строит копию отправленного запроса с новым access token
func replay(ctx context.Context, sent *http.Request, accessToken string) (*http.Request, error) {
	retry := sent.Clone(ctx)
	retry.Header.Set("Authorization", bearer(accessToken))

	if sent.GetBody != nil {
		body, err := sent.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}

	return retry, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func bearer(token string) string {
	return "Bearer " + token
}
