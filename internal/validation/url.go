package validation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ValidateServerURL проверяет базовый адрес API: схема http/https и хост
func ValidateServerURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("server URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got: %s", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("URL must include a host")
	}

	return nil
}

// IsPlainHTTP сообщает, что токены пойдут по сети в открытом виде
func IsPlainHTTP(rawURL string) bool {
	return strings.HasPrefix(strings.ToLower(rawURL), "http://")
}
