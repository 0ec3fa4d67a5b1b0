package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionEnded - сессию завершили, пока шел refresh; результат refresh отброшен.
// Конвейер не считает это ошибкой refresh и не запускает обработчики отказа.
var ErrSessionEnded = errors.New("session ended during token refresh")

// StatusError описывает ответ сервера с кодом вне диапазона 2xx
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// StatusCode возвращает HTTP статус из цепочки ошибок или 0
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// IsUnauthorized сообщает, что сервер отверг учетные данные
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsRejected сообщает, что сервер отклонил запрос как некорректный или
// неавторизованный (400, 401, 403) - повтор не поможет
func IsRejected(err error) bool {
	switch StatusCode(err) {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return true
	default:
		return false
	}
}
