package router

import (
	"net/http"

	"media-editor/internal/http-server/handler/media"
	"media-editor/internal/http-server/handler/transform"
	"media-editor/internal/http-server/middleware"
	"media-editor/internal/ratelimit"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/wb-go/wbf/zlog"
)

type Handler struct {
	MediaHandler     *media.MediaHandler
	TransformHandler *transform.TransformHandler
	Limiter          ratelimit.Store
	Logger           *zlog.Zerolog
}

func SetupRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(middleware.RecoveryMiddleware(h.Logger))
	r.Use(middleware.LoggingMiddleware(h.Logger))

	limited := func(next http.Handler) http.Handler { return next }
	if h.Limiter != nil {
		limited = middleware.RateLimitMiddleware(h.Limiter, h.Logger)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/media", func(r chi.Router) {
			r.Post("/", h.MediaHandler.RegisterMedia)
			r.Get("/{id}", h.MediaHandler.GetMedia)
			r.With(limited).Post("/{id}/edits", h.MediaHandler.ApplyEdit)
			r.With(limited).Delete("/{id}/transformations", h.MediaHandler.RevertMedia)
		})

		r.Get("/edits/{id}", h.MediaHandler.GetEdit)

		r.Route("/transform", func(r chi.Router) {
			r.With(limited).Post("/preview", h.TransformHandler.Preview)
			r.Get("/inspect", h.TransformHandler.Inspect)
		})

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
	})

	return r
}
