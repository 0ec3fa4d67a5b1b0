// Package apitest provides an in-process fake of the OSUT backend for tests:
// Google-style login, rotating refresh tokens, logout and a few protected
// resource routes.
package apitest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/iudanet/osut/pkg/api"
)

type ctxKey struct{}

// Backend - тестовый сервер с состоянием сессий
type Backend struct {
	Server *httptest.Server

	users       map[string]api.User
	identities  map[string]string // idToken -> userID
	refresh     map[string]string // refresh token -> userID
	active      map[string]bool   // выданные и не отозванные access tokens
	refreshHook func()

	secret    []byte
	seenAuth  []string
	accessTTL time.Duration

	mu sync.Mutex

	loginCalls   atomic.Int32
	refreshCalls atomic.Int32
	logoutCalls  atomic.Int32

	// FixedRefresh - сервер не ротирует refresh token и не возвращает его
	FixedRefresh bool
}

// New запускает тестовый backend; сервер закрывается через t.Cleanup вызывающего
func New() *Backend {
	b := &Backend{
		users:      make(map[string]api.User),
		identities: make(map[string]string),
		refresh:    make(map[string]string),
		active:     make(map[string]bool),
		secret:     []byte("apitest-secret-key-at-least-32-bytes!"),
		accessTTL:  time.Hour,
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/Auth/login", b.handleLogin).Methods(http.MethodPost)
	router.HandleFunc("/api/Auth/refresh", b.handleRefresh).Methods(http.MethodPost)
	router.HandleFunc("/api/Auth/logout", b.handleLogout).Methods(http.MethodPost)

	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(b.authMiddleware)
	protected.HandleFunc("/Users/{id}", b.handleGetUser).Methods(http.MethodGet)
	protected.HandleFunc("/Users", b.handleListUsers).Methods(http.MethodGet)
	protected.HandleFunc("/Echo", b.handleEcho).Methods(http.MethodPost, http.MethodPut)

	b.Server = httptest.NewServer(router)
	return b
}

// URL возвращает базовый адрес сервера
func (b *Backend) URL() string {
	return b.Server.URL
}

// Close останавливает сервер
func (b *Backend) Close() {
	b.Server.Close()
}

// AddUser регистрирует пользователя и identity token, под которым он входит
func (b *Backend) AddUser(idToken string, user api.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[user.ID] = user
	b.identities[idToken] = user.ID
}

// RemoveUser удаляет профиль (GET /Users/{id} начнет отвечать 404)
func (b *Backend) RemoveUser(userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.users, userID)
}

// IssuePair выдает пару токенов пользователю в обход login
func (b *Backend) IssuePair(userID string) api.TokenResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	resp, _ := b.issueLocked(userID)
	return resp
}

// ExpireAccessTokens отзывает все выданные access tokens
func (b *Backend) ExpireAccessTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.active = make(map[string]bool)
}

// RevokeRefreshTokens отзывает все refresh tokens
func (b *Backend) RevokeRefreshTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh = make(map[string]string)
}

// OnRefresh задает функцию, вызываемую в начале обработки refresh
// (например, для ожидания, пока параллельные запросы получат 401)
func (b *Backend) OnRefresh(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refreshHook = fn
}

// LoginCalls возвращает число запросов на login
func (b *Backend) LoginCalls() int { return int(b.loginCalls.Load()) }

// RefreshCalls возвращает число запросов на refresh
func (b *Backend) RefreshCalls() int { return int(b.refreshCalls.Load()) }

// LogoutCalls возвращает число запросов на logout
func (b *Backend) LogoutCalls() int { return int(b.logoutCalls.Load()) }

// SeenAuthorization возвращает заголовки Authorization защищенных запросов
func (b *Backend) SeenAuthorization() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.seenAuth...)
}

func (b *Backend) issueLocked(userID string) (api.TokenResponse, error) {
	access, err := IssueAccessToken(b.secret, userID, b.accessTTL)
	if err != nil {
		return api.TokenResponse{}, err
	}
	b.active[access] = true

	refresh := NewRefreshToken()
	b.refresh[refresh] = userID

	return api.TokenResponse{AccessToken: access, RefreshToken: refresh}, nil
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	b.loginCalls.Add(1)

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IDToken == "" {
		writeError(w, http.StatusBadRequest, "idToken is required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	userID, ok := b.identities[req.IDToken]
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid id token")
		return
	}

	resp, err := b.issueLocked(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (b *Backend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	b.refreshCalls.Add(1)

	b.mu.Lock()
	hook := b.refreshHook
	b.mu.Unlock()
	if hook != nil {
		hook()
	}

	var req api.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refreshToken is required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	userID, ok := b.refresh[req.RefreshToken]
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	if b.FixedRefresh {
		access, err := IssueAccessToken(b.secret, userID, b.accessTTL)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		b.active[access] = true
		writeJSON(w, http.StatusOK, api.TokenResponse{AccessToken: access})
		return
	}

	// Ротация: старый refresh token одноразовый
	delete(b.refresh, req.RefreshToken)
	resp, err := b.issueLocked(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (b *Backend) handleLogout(w http.ResponseWriter, r *http.Request) {
	b.logoutCalls.Add(1)

	var req api.LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	b.mu.Lock()
	delete(b.refresh, req.RefreshToken)
	b.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

// authMiddleware проверяет bearer token так же, как настоящий backend
func (b *Backend) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		b.mu.Lock()
		b.seenAuth = append(b.seenAuth, authHeader)
		b.mu.Unlock()

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}

		claims, err := ValidateAccessToken(b.secret, parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		b.mu.Lock()
		active := b.active[parts[1]]
		b.mu.Unlock()
		if !active {
			writeError(w, http.StatusUnauthorized, "token expired")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (b *Backend) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	b.mu.Lock()
	user, ok := b.users[id]
	b.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (b *Backend) handleListUsers(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	users := make([]api.User, 0, len(b.users))
	for _, u := range b.users {
		users = append(users, u)
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, users)
}

// handleEcho возвращает тело запроса и subject токена - для проверки повтора тела
func (b *Backend) handleEcho(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	subject, _ := r.Context().Value(ctxKey{}).(string)

	writeJSON(w, http.StatusOK, map[string]string{
		"body":    string(body),
		"subject": subject,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, api.ErrorResponse{Error: http.StatusText(status), Message: message})
}
