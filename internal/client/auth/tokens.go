package auth

import (
	"sync/atomic"

	"github.com/iudanet/osut/internal/models"
)

// TokenStore хранит текущую пару токенов в памяти процесса.
// Пара заменяется одним атомарным присваиванием, поэтому читатели никогда
// не видят наполовину обновленное значение.
type TokenStore struct {
	current atomic.Pointer[models.TokenPair]
}

// NewTokenStore создает пустое хранилище
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get возвращает копию текущей пары или nil
func (s *TokenStore) Get() *models.TokenPair {
	pair := s.current.Load()
	if pair == nil {
		return nil
	}
	cp := *pair
	return &cp
}

// Set заменяет пару целиком; nil очищает хранилище
func (s *TokenStore) Set(pair *models.TokenPair) {
	if pair == nil {
		s.current.Store(nil)
		return
	}
	cp := *pair
	s.current.Store(&cp)
}

func (s *TokenStore) load() *models.TokenPair {
	return s.current.Load()
}

// swap публикует next, только если хранилище все еще держит old
func (s *TokenStore) swap(old *models.TokenPair, next models.TokenPair) bool {
	return s.current.CompareAndSwap(old, &next)
}
