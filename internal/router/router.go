package router

import (
	"net/http"

	"github.com/Totarae/URLShortenerWeb/internal/handlers"
	"github.com/Totarae/URLShortenerWeb/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter создаёт и настраивает маршрутизатор.
// formLimiter оборачивает маршруты отправки форм; при nil ограничения нет.
func NewRouter(handler *handlers.Handler, logger *zap.Logger, formLimiter func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.LoggingMiddleware(logger)) // Подключаем логирование
	r.Use(chimw.Recoverer)
	r.Use(middleware.GzipMiddleware) // Gzip-сжатие

	r.Get("/", handler.Index)
	r.Get("/ping", handler.Ping)
	r.Get("/open/{code}", handler.OpenShortLink)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(handlers.StaticFS()))))

	r.Group(func(r chi.Router) {
		if formLimiter != nil {
			r.Use(formLimiter)
		}
		r.Post("/shorten", handler.Shorten)
		r.Post("/retrieve", handler.Retrieve)
		r.Post("/tab", handler.SwitchTab)
		r.Post("/theme", handler.ChangeTheme)
	})
	return r
}
