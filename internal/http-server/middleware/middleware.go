package middleware

import (
	"net"
	"net/http"
	"time"

	"media-editor/internal/http-server/handler/response"
	"media-editor/internal/ratelimit"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/wb-go/wbf/zlog"
)

func LoggingMiddleware(logger *zlog.Zerolog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info().
				Str("request_id", chimw.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("query", r.URL.RawQuery).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("Request completed")
		})
	}
}

func RecoveryMiddleware(logger *zlog.Zerolog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error().
						Interface("error", err).
						Str("request_id", chimw.GetReqID(r.Context())).
						Str("path", r.URL.Path).
						Msg("Panic recovered")

					response.Error(w, logger, http.StatusInternalServerError, "Internal server error", nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitMiddleware limits requests per client address.
func RateLimitMiddleware(store ratelimit.Store, logger *zlog.Zerolog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			if !store.Limiter(key).Allow() {
				logger.Warn().Str("client", key).Str("path", r.URL.Path).Msg("Rate limit exceeded")
				w.Header().Set("Retry-After", "1")
				response.Error(w, logger, http.StatusTooManyRequests, "Too many requests", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
