package auth

import "errors"

// Ошибки сессии и обновления токенов
var (
	// ErrAuthenticationFailed - backend отклонил обмен identity token на пару токенов
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrMissingRefreshToken - refresh без сохраненного refresh token
	ErrMissingRefreshToken = errors.New("missing refresh token")

	// ErrRefreshRejected - backend отклонил refresh token (истек или отозван)
	ErrRefreshRejected = errors.New("refresh token rejected")

	// ErrProfileFetchFailed - не удалось получить профиль; сессия не меняется
	ErrProfileFetchFailed = errors.New("failed to fetch user profile")

	// ErrLogoutNotifyFailed - сервер не получил уведомление о logout; локальная сессия все равно очищена
	ErrLogoutNotifyFailed = errors.New("failed to notify server about logout")

	// ErrNotAuthenticated - в сессии нет access token
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNoSubject - access token не содержит sub
	ErrNoSubject = errors.New("access token has no subject")
)
