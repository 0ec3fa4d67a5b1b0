package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// LoggingTransport логирует исходящие запросы: метод, путь, статус, время.
// НЕ логирует заголовки и тела (токены).
type LoggingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

// NewLoggingTransport оборачивает next (nil - http.DefaultTransport)
func NewLoggingTransport(next http.RoundTripper, logger *slog.Logger) *LoggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingTransport{next: next, logger: logger}
}

// RoundTrip implements http.RoundTripper
func (l *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := l.next.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		l.logger.Warn("HTTP request failed",
			"method", req.Method,
			"path", sanitizePath(req.URL.Path),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return nil, err
	}

	logLevel := slog.LevelDebug
	if resp.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if resp.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}

	l.logger.Log(req.Context(), logLevel, "HTTP request",
		"method", req.Method,
		"path", sanitizePath(req.URL.Path),
		"status", resp.StatusCode,
		"retried", IsRetried(req.Context()),
		"duration_ms", duration.Milliseconds(),
	)

	return resp, nil
}

// sanitizePath скрывает сегменты пути, которые могут нести токены
func sanitizePath(path string) string {
	if !strings.Contains(path, "/token/") && !strings.Contains(path, "/reset/") {
		return path
	}

	parts := strings.Split(path, "/")
	for i, part := range parts {
		if (part == "token" || part == "reset") && i+1 < len(parts) && parts[i+1] != "" {
			parts[i+1] = "***"
		}
	}
	return strings.Join(parts, "/")
}
