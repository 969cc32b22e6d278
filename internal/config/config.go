// Пакет config — загрузка и валидация конфигурации Admin Console
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bigkaa/goartstore/admin-console/internal/domain/model"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Значения по умолчанию, совпадающие с поведением исходной консоли.
const (
	DefaultSeedURL       = "https://jsonplaceholder.typicode.com/users"
	DefaultPageSize      = 5
	DefaultMaxFileSize   = 5 * 1024 * 1024
	DefaultAllowedTypes  = "image/jpeg,image/png,image/gif,application/pdf"
	DefaultDemoAccounts  = "admin@example.com:admin123:admin,uploader@example.com:uploader123:uploader,viewer@example.com:viewer123:viewer"
	defaultMaxRequestLen = 64 * 1024 * 1024
)

// Account — учётная запись из AC_DEMO_ACCOUNTS (email:password:role).
type Account struct {
	Email    string
	Password string
	Role     model.Role
}

// Config содержит все параметры конфигурации Admin Console.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- Источник начальных данных ---

	// URL, возвращающий JSON-массив пользователей справочника
	SeedURL string
	// Таймаут запроса начальных данных
	SeedTimeout time.Duration

	// --- Справочник ---

	// Количество записей на странице
	PageSize int

	// --- Загрузки ---

	// Максимальный размер одного файла в байтах
	UploadMaxFileSize int64
	// Допустимые MIME-типы
	UploadAllowedTypes []string
	// Максимальный размер тела запроса с пакетом файлов
	UploadMaxRequestSize int64

	// --- Аутентификация ---

	// Принимаемые учётные записи (демо, не граница безопасности)
	DemoAccounts []Account
	// Ключ шифрования cookie сессии (пустой — случайный на процесс)
	SessionSecret string
	// Время жизни сессии (рабочего пространства)
	SessionTTL time.Duration
	// Максимальное число одновременных сессий
	SessionMax int
	// Secure flag для cookie
	SecureCookie bool
	// Issuer access token для JSON API
	TokenIssuer string
	// Время жизни access token
	TokenTTL time.Duration

	// --- topologymetrics ---

	// Имя группы в метриках зависимостей
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// значения и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// AC_PORT — порт HTTP-сервера (по умолчанию 8000)
	cfg.Port, err = getEnvInt("AC_PORT", 8000)
	if err != nil {
		return nil, fmt.Errorf("AC_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("AC_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// AC_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("AC_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("AC_LOG_LEVEL: %w", err)
	}

	// AC_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("AC_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("AC_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- Источник начальных данных ---

	cfg.SeedURL = strings.TrimSpace(getEnvDefault("AC_SEED_URL", DefaultSeedURL))
	if !strings.HasPrefix(cfg.SeedURL, "http://") && !strings.HasPrefix(cfg.SeedURL, "https://") {
		return nil, fmt.Errorf("AC_SEED_URL: ожидается http(s) URL, получено %q", cfg.SeedURL)
	}

	cfg.SeedTimeout, err = getEnvDuration("AC_SEED_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AC_SEED_TIMEOUT: %w", err)
	}

	// --- Справочник ---

	cfg.PageSize, err = getEnvInt("AC_PAGE_SIZE", DefaultPageSize)
	if err != nil {
		return nil, fmt.Errorf("AC_PAGE_SIZE: %w", err)
	}
	if cfg.PageSize < 1 || cfg.PageSize > 100 {
		return nil, fmt.Errorf("AC_PAGE_SIZE: значение %d вне допустимого диапазона 1-100", cfg.PageSize)
	}

	// --- Загрузки ---

	cfg.UploadMaxFileSize, err = getEnvInt64("AC_UPLOAD_MAX_FILE_SIZE", DefaultMaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("AC_UPLOAD_MAX_FILE_SIZE: %w", err)
	}
	if cfg.UploadMaxFileSize < 1 {
		return nil, fmt.Errorf("AC_UPLOAD_MAX_FILE_SIZE: значение должно быть положительным")
	}

	cfg.UploadAllowedTypes = parseCSV(strings.ToLower(getEnvDefault("AC_UPLOAD_ALLOWED_TYPES", DefaultAllowedTypes)))
	if len(cfg.UploadAllowedTypes) == 0 {
		return nil, fmt.Errorf("AC_UPLOAD_ALLOWED_TYPES: список допустимых типов пуст")
	}

	cfg.UploadMaxRequestSize, err = getEnvInt64("AC_UPLOAD_MAX_REQUEST_SIZE", defaultMaxRequestLen)
	if err != nil {
		return nil, fmt.Errorf("AC_UPLOAD_MAX_REQUEST_SIZE: %w", err)
	}
	if cfg.UploadMaxRequestSize < cfg.UploadMaxFileSize {
		return nil, fmt.Errorf("AC_UPLOAD_MAX_REQUEST_SIZE: значение %d меньше AC_UPLOAD_MAX_FILE_SIZE (%d)",
			cfg.UploadMaxRequestSize, cfg.UploadMaxFileSize)
	}

	// --- Аутентификация ---

	cfg.DemoAccounts, err = parseAccounts(getEnvDefault("AC_DEMO_ACCOUNTS", DefaultDemoAccounts))
	if err != nil {
		return nil, fmt.Errorf("AC_DEMO_ACCOUNTS: %w", err)
	}

	cfg.SessionSecret = getEnvDefault("AC_SESSION_SECRET", "")

	cfg.SessionTTL, err = getEnvDuration("AC_SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("AC_SESSION_TTL: %w", err)
	}

	cfg.SessionMax, err = getEnvInt("AC_SESSION_MAX", 1000)
	if err != nil {
		return nil, fmt.Errorf("AC_SESSION_MAX: %w", err)
	}
	if cfg.SessionMax < 1 {
		return nil, fmt.Errorf("AC_SESSION_MAX: значение должно быть положительным")
	}

	cfg.SecureCookie, err = getEnvBool("AC_SECURE_COOKIE", false)
	if err != nil {
		return nil, fmt.Errorf("AC_SECURE_COOKIE: %w", err)
	}

	cfg.TokenIssuer = getEnvDefault("AC_TOKEN_ISSUER", "admin-console")

	cfg.TokenTTL, err = getEnvDuration("AC_TOKEN_TTL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("AC_TOKEN_TTL: %w", err)
	}

	// --- topologymetrics ---

	cfg.DephealthGroup = getEnvDefault("AC_DEPHEALTH_GROUP", "admin-console")

	cfg.DephealthCheckInterval, err = getEnvDuration("AC_DEPHEALTH_CHECK_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AC_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Graceful shutdown ---

	cfg.ShutdownTimeout, err = getEnvDuration("AC_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AC_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvInt64 — как getEnvInt, но для размеров в байтах.
func getEnvInt64(key string, defaultVal int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q", val)
	}
	return b, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// parseCSV разбирает строку, разделённую запятыми, на срез строк.
// Пробелы вокруг элементов убираются, пустые элементы игнорируются.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// parseAccounts разбирает список "email:password:role" через запятую.
// Email нормализуется к нижнему регистру, дубликаты запрещены.
func parseAccounts(s string) ([]Account, error) {
	items := parseCSV(s)
	if len(items) == 0 {
		return nil, fmt.Errorf("не задано ни одной учётной записи")
	}

	seen := make(map[string]bool, len(items))
	accounts := make([]Account, 0, len(items))
	for _, item := range items {
		parts := strings.Split(item, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("некорректная запись %q, ожидается email:password:role", item)
		}

		email := strings.ToLower(strings.TrimSpace(parts[0]))
		password := parts[1]
		role, err := model.ParseRole(strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, fmt.Errorf("запись %q: %w", email, err)
		}
		if email == "" || password == "" {
			return nil, fmt.Errorf("некорректная запись %q: пустой email или пароль", item)
		}
		if seen[email] {
			return nil, fmt.Errorf("дублирующаяся учётная запись %q", email)
		}
		seen[email] = true

		accounts = append(accounts, Account{Email: email, Password: password, Role: role})
	}
	return accounts, nil
}
