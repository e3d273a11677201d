package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"price-match/internal/config"
	matchHnd "price-match/internal/match/handler"
	"price-match/internal/middleware"
	"price-match/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger, h *matchHnd.Handler, probe handlers.Probe) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	// health-check
	r.Get("/health", handlers.Health)
	r.Get("/ready", handlers.Ready(probe))

	h.Mount(r)

	return r
}
