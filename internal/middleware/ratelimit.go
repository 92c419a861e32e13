package middleware

import (
	"net/http"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"
)

// RateLimitMiddleware ограничивает частоту отправки форм с одного IP.
// rate задаётся в формате limiter, например "60-M".
func RateLimitMiddleware(rate string, logger *zap.Logger) (func(http.Handler) http.Handler, error) {
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(memory.NewStore(), r)

	mw := stdlib.NewMiddleware(instance,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("rate limit reached", zap.String("remote", req.RemoteAddr), zap.String("uri", req.RequestURI))
			http.Error(w, "Too many requests. Please wait a moment and try again.", http.StatusTooManyRequests)
		}),
	)
	return mw.Handler, nil
}
