package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Totarae/URLShortenerWeb/internal/model"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"
)

// Config хранит конфигурацию веб-интерфейса
type Config struct {
	ServerAddress   string        `json:"server_address"`
	BackendURL      string        `json:"backend_url"`
	ShortBaseURL    string        `json:"short_base_url"`
	RetrievePath    string        `json:"retrieve_path"`
	RequestTimeout  time.Duration `json:"-"`
	FileStoragePath string        `json:"file_storage_path"`
	SessionSecret   string        `json:"session_secret"`
	SessionTTL      time.Duration `json:"-"`
	DefaultTheme    model.Theme   `json:"default_theme"`
	RateLimit       string        `json:"rate_limit"`
	LogLevel        string        `json:"log_level"`
	EnableHTTPS     bool          `json:"enable_https"`
	TLSCertPath     string        `json:"tls_cert_path"`
	TLSKeyPath      string        `json:"tls_key_path"`
}

// NewConfig инициализирует конфигурацию из окружения, .env, JSON-файла и флагов
// командной строки процесса.
func NewConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load собирает конфигурацию. Приоритет: флаги > окружение (.env не
// переопределяет уже заданные переменные) > JSON-файл > значения по умолчанию.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("shortener-web", flag.ContinueOnError)

	// Определяем флаги, но НЕ задаем в них значения по умолчанию
	serverAddress := fs.String("a", "", "server address")
	backendURL := fs.String("b", "", "backend base URL")
	shortBaseURL := fs.String("s", "", "base URL of short links")
	fileStoragePath := fs.String("f", "", "theme preference file (JSON lines)")
	logLevel := fs.String("l", "", "log level: debug, info, warn, error")
	envFile := fs.String("env", ".env", "path to .env file")
	configPath := fs.String("c", "", "path to JSON config file")
	fs.StringVar(configPath, "config", "", "path to JSON config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Читаем .env, если есть (не переопределяет переменные окружения!)
	_ = godotenv.Load(*envFile)

	v := viper.New()

	// Загружаем JSON-конфигурацию (если указана)
	if *configPath == "" {
		*configPath = os.Getenv("CONFIG")
	}
	fileCfg := &Config{}
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file %q: %w", *configPath, err)
		}
		if err := json.Unmarshal(data, fileCfg); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w", *configPath, err)
		}
	}

	defaultString := func(key, fromFile, fallback string) {
		if fromFile != "" {
			v.SetDefault(key, fromFile)
			return
		}
		v.SetDefault(key, fallback)
	}
	defaultString("SERVER_ADDRESS", fileCfg.ServerAddress, "localhost:3000")
	defaultString("BACKEND_URL", fileCfg.BackendURL, "http://localhost:8000")
	defaultString("SHORT_BASE_URL", fileCfg.ShortBaseURL, "")
	defaultString("RETRIEVE_PATH", fileCfg.RetrievePath, "/api/stats/")
	defaultString("FILE_STORAGE_PATH", fileCfg.FileStoragePath, "preferences.json")
	defaultString("SESSION_SECRET", fileCfg.SessionSecret, "change-me")
	defaultString("DEFAULT_THEME", string(fileCfg.DefaultTheme), string(model.ThemeDark))
	defaultString("RATE_LIMIT", fileCfg.RateLimit, "60-M")
	defaultString("LOG_LEVEL", fileCfg.LogLevel, "info")
	defaultString("TLS_CERT_PATH", fileCfg.TLSCertPath, "cert.pem")
	defaultString("TLS_KEY_PATH", fileCfg.TLSKeyPath, "key.pem")
	v.SetDefault("ENABLE_HTTPS", fileCfg.EnableHTTPS)
	v.SetDefault("REQUEST_TIMEOUT", 5*time.Second)
	v.SetDefault("SESSION_TTL", 24*time.Hour)

	v.AutomaticEnv()

	cfg := &Config{
		ServerAddress:   v.GetString("SERVER_ADDRESS"),
		BackendURL:      v.GetString("BACKEND_URL"),
		ShortBaseURL:    v.GetString("SHORT_BASE_URL"),
		RetrievePath:    v.GetString("RETRIEVE_PATH"),
		RequestTimeout:  v.GetDuration("REQUEST_TIMEOUT"),
		FileStoragePath: v.GetString("FILE_STORAGE_PATH"),
		SessionSecret:   v.GetString("SESSION_SECRET"),
		SessionTTL:      v.GetDuration("SESSION_TTL"),
		DefaultTheme:    model.Theme(v.GetString("DEFAULT_THEME")),
		RateLimit:       v.GetString("RATE_LIMIT"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		EnableHTTPS:     v.GetBool("ENABLE_HTTPS"),
		TLSCertPath:     v.GetString("TLS_CERT_PATH"),
		TLSKeyPath:      v.GetString("TLS_KEY_PATH"),
	}

	// Переданный флаг важнее окружения
	override := func(flagVal string, target *string) {
		if flagVal != "" {
			*target = flagVal
		}
	}
	override(*serverAddress, &cfg.ServerAddress)
	override(*backendURL, &cfg.BackendURL)
	override(*shortBaseURL, &cfg.ShortBaseURL)
	override(*fileStoragePath, &cfg.FileStoragePath)
	override(*logLevel, &cfg.LogLevel)

	// Короткие ссылки по умолчанию обслуживает сам бэкенд
	if cfg.ShortBaseURL == "" {
		cfg.ShortBaseURL = strings.TrimRight(cfg.BackendURL, "/") + "/"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate проверяет корректность конфигурации
func (cfg *Config) Validate() error {
	if cfg.ServerAddress == "" {
		return fmt.Errorf("server address must not be empty")
	}
	if err := validateBaseURL("backend URL", cfg.BackendURL); err != nil {
		return err
	}
	if err := validateBaseURL("short base URL", cfg.ShortBaseURL); err != nil {
		return err
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", cfg.RequestTimeout)
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.SessionSecret == "" {
		return fmt.Errorf("session secret must not be empty")
	}
	if _, err := model.ParseTheme(string(cfg.DefaultTheme)); err != nil {
		return fmt.Errorf("default theme: %w", err)
	}
	if _, err := limiter.NewRateFromFormatted(cfg.RateLimit); err != nil {
		return fmt.Errorf("rate limit %q: %w", cfg.RateLimit, err)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	if cfg.EnableHTTPS && (cfg.TLSCertPath == "" || cfg.TLSKeyPath == "") {
		return fmt.Errorf("TLS cert and key paths are required when HTTPS is enabled")
	}
	return nil
}

func validateBaseURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s %q must be an absolute http(s) URL", name, raw)
	}
	return nil
}
