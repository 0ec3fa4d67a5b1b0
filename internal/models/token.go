package models

// TokenPair представляет пару токенов сессии.
// Значение неизменяемо: новая пара всегда заменяет старую целиком.
type TokenPair struct {
	AccessToken  string `json:"access_token"`  // JWT access token
	RefreshToken string `json:"refresh_token"` // refresh token
}

// Valid сообщает, что оба токена присутствуют
func (p TokenPair) Valid() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}

// SessionState состояние сессии клиента
type SessionState int

const (
	// StateBootstrapping - сессия восстанавливается из хранилища
	StateBootstrapping SessionState = iota
	// StateUnauthenticated - пользователь не вошел
	StateUnauthenticated
	// StateAuthenticated - вход выполнен через backend, есть пара токенов
	StateAuthenticated
	// StateDemo - локальный гостевой режим без токенов
	StateDemo
)

// String возвращает имя состояния для логов и CLI
func (s SessionState) String() string {
	switch s {
	case StateBootstrapping:
		return "bootstrapping"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateDemo:
		return "demo"
	default:
		return "unknown"
	}
}
