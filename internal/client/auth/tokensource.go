package auth

import (
	"golang.org/x/oauth2"
)

type storeTokenSource struct {
	tokens *TokenStore
}

// NewTokenSource представляет текущую пару токенов как oauth2.TokenSource.
// Источник не обновляет токены сам: это делает Refresher через Transport.
func NewTokenSource(tokens *TokenStore) oauth2.TokenSource {
	return storeTokenSource{tokens: tokens}
}

// Token implements oauth2.TokenSource
func (s storeTokenSource) Token() (*oauth2.Token, error) {
	pair := s.tokens.Get()
	if pair == nil || pair.AccessToken == "" {
		return nil, ErrNotAuthenticated
	}

	token := &oauth2.Token{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
	}
	if exp, err := ExpiresAt(pair.AccessToken); err == nil {
		token.Expiry = exp
	}

	return token, nil
}
