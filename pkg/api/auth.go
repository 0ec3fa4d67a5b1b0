package api

// LoginRequest обменивает внешний identity token (Google ID token) на пару токенов
type LoginRequest struct {
	IDToken string `json:"idToken"` // ID token внешнего провайдера
}

// RefreshRequest представляет запрос на обновление пары токенов
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LogoutRequest уведомляет сервер о завершении сессии
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenResponse представляет ответ с токенами доступа
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`  // JWT access token, sub = ID пользователя
	RefreshToken string `json:"refreshToken"` // refresh token (может отсутствовать при fixed-режиме)
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`   // код ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
	Title   string `json:"title,omitempty"`   // ASP.NET problem details
}

// Text возвращает наиболее информативное сообщение из ответа
func (e ErrorResponse) Text() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Title != "":
		return e.Title
	default:
		return e.Error
	}
}
