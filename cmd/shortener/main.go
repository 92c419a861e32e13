package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Totarae/URLShortenerWeb/internal/client"
	"github.com/Totarae/URLShortenerWeb/internal/config"
	"github.com/Totarae/URLShortenerWeb/internal/handlers"
	"github.com/Totarae/URLShortenerWeb/internal/middleware"
	"github.com/Totarae/URLShortenerWeb/internal/router"
	"github.com/Totarae/URLShortenerWeb/internal/service"
	"github.com/Totarae/URLShortenerWeb/internal/session"
	"github.com/Totarae/URLShortenerWeb/internal/util"
	"go.uber.org/zap"
)

func main() {
	bootstrap, _ := zap.NewProduction()

	// Инициализация конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		bootstrap.Fatal("Ошибка конфигурации", zap.Error(err))
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		bootstrap.Fatal("Ошибка инициализации логгера", zap.Error(err))
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Ошибка при работе сервера", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	backend := client.New(cfg.BackendURL,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithRetrievePath(cfg.RetrievePath),
		client.WithLogger(logger.Named("client")),
	)
	orchestrator := service.NewOrchestrator(backend, logger.Named("service"))
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, logger.Named("session"))
	prefs := util.NewPrefStore(cfg.FileStoragePath, logger)

	handler := handlers.NewHandler(orchestrator, sessions, prefs, cfg.ShortBaseURL, cfg.DefaultTheme, logger)

	limit, err := middleware.RateLimitMiddleware(cfg.RateLimit, logger)
	if err != nil {
		return err
	}
	r := router.NewRouter(handler, logger, limit)

	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		// запрос к бэкенду плюс запас на рендеринг
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go sweepSessions(ctx, sessions, cfg.SessionTTL, logger)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Сервер запущен",
			zap.String("address", cfg.ServerAddress),
			zap.String("backend", cfg.BackendURL),
			zap.Bool("https", cfg.EnableHTTPS),
		)
		if cfg.EnableHTTPS {
			serverErr <- server.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
			return
		}
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Получен сигнал завершения")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		server.Close()
		return err
	}
	logger.Info("Сервер остановлен")
	return nil
}

// sweepSessions периодически удаляет неактивные сессии.
func sweepSessions(ctx context.Context, sessions *session.Manager, ttl time.Duration, logger *zap.Logger) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(); n > 0 {
				logger.Debug("expired sessions removed", zap.Int("count", n), zap.Int("active", sessions.Len()))
			}
		}
	}
}
