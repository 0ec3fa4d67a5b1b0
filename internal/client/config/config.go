// Package config resolves client settings with the priority
// flag > environment > .env file > default.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/iudanet/osut/internal/validation"
)

// Переменные окружения
const (
	EnvAPIURL          = "OSUT_API_URL"
	EnvRequestTimeout  = "OSUT_REQUEST_TIMEOUT"
	EnvEnableMocks     = "OSUT_ENABLE_MOCKS"
	EnvStorage         = "OSUT_STORAGE"
	EnvDB              = "OSUT_DB"
	EnvTokenPassphrase = "OSUT_TOKEN_PASSPHRASE"
	EnvLogLevel        = "OSUT_LOG_LEVEL"
)

// Значения по умолчанию
const (
	DefaultAPIURL         = "http://localhost:5202"
	DefaultRequestTimeout = 15 * time.Second
	DefaultDBPath         = "osut.db"
	DefaultEnvFile        = ".env"
)

// Типы хранилища токенов
const (
	StorageBolt   = "bolt"
	StorageSQLite = "sqlite"
)

// Config настройки клиента
type Config struct {
	APIURL          string
	StorageKind     string
	DBPath          string
	TokenPassphrase string
	Args            []string // команда и ее аргументы
	RequestTimeout  time.Duration
	LogLevel        slog.Level
	EnableMocks     bool
	ShowVersion     bool
}

// PlainHTTP сообщает, что токены будут передаваться без TLS
func (c *Config) PlainHTTP() bool {
	return validation.IsPlainHTTP(c.APIURL)
}

// Load разбирает аргументы командной строки (без имени программы).
// getenv обычно os.Getenv; envFile может отсутствовать.
func Load(args []string, getenv func(string) string, envFile string) (*Config, error) {
	dotenv, err := readEnvFile(envFile)
	if err != nil {
		return nil, err
	}
	lookup := func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}

	flags := flag.NewFlagSet("osut", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	showVersion := flags.Bool("version", false, "Show version information")
	serverURL := flags.String("server", "", "Backend base URL")
	timeout := flags.String("timeout", "", "Request timeout (e.g. 15s or 15000)")
	mock := flags.Bool("mock", false, "Use in-memory fixture data instead of the backend")
	storageKind := flags.String("storage", "", "Token storage: bolt or sqlite")
	dbPath := flags.String("db", "", "Path to local token database")
	passphraseFile := flags.String("token-passphrase-file", "", "File with the passphrase that encrypts stored tokens")
	logLevel := flags.String("log-level", "", "Log level: debug, info, warn, error")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := &Config{
		APIURL:      pick(*serverURL, lookup(EnvAPIURL), DefaultAPIURL),
		StorageKind: strings.ToLower(pick(*storageKind, lookup(EnvStorage), StorageBolt)),
		DBPath:      pick(*dbPath, lookup(EnvDB), DefaultDBPath),
		Args:        flags.Args(),
		ShowVersion: *showVersion,
	}

	if err := validation.ValidateServerURL(cfg.APIURL); err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	switch cfg.StorageKind {
	case StorageBolt, StorageSQLite:
	default:
		return nil, fmt.Errorf("unknown storage %q (want %s or %s)", cfg.StorageKind, StorageBolt, StorageSQLite)
	}

	if cfg.RequestTimeout, err = parseTimeout(pick(*timeout, lookup(EnvRequestTimeout), "")); err != nil {
		return nil, err
	}

	if set["mock"] {
		cfg.EnableMocks = *mock
	} else if v := lookup(EnvEnableMocks); v != "" {
		if cfg.EnableMocks, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvEnableMocks, err)
		}
	}

	if cfg.LogLevel, err = parseLevel(pick(*logLevel, lookup(EnvLogLevel), "info")); err != nil {
		return nil, err
	}

	// Файл приоритетнее переменной: пароль не попадает в окружение процесса
	if *passphraseFile != "" {
		content, err := os.ReadFile(*passphraseFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read passphrase file: %w", err)
		}
		cfg.TokenPassphrase = strings.TrimSpace(string(content))
		if cfg.TokenPassphrase == "" {
			return nil, fmt.Errorf("passphrase file is empty")
		}
	} else {
		cfg.TokenPassphrase = lookup(EnvTokenPassphrase)
	}

	return cfg, nil
}

func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return values, nil
}

// pick возвращает первое непустое значение
func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseTimeout принимает duration ("20s") или миллисекунды ("15000")
func parseTimeout(v string) (time.Duration, error) {
	if v == "" {
		return DefaultRequestTimeout, nil
	}
	if ms, err := strconv.Atoi(v); err == nil {
		if ms <= 0 {
			return 0, fmt.Errorf("request timeout must be positive, got %d", ms)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid request timeout %q: %w", v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("request timeout must be positive, got %s", d)
	}
	return d, nil
}

func parseLevel(v string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", v, err)
	}
	return level, nil
}
