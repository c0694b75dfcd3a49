package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/loghog/loghog/internal/adapter/api/handler"
	"github.com/loghog/loghog/internal/adapter/api/middleware"
	"github.com/loghog/loghog/internal/domain"
	"github.com/loghog/loghog/internal/usecase"
)

// RouterConfig carries the HTTP-level knobs the router needs.
type RouterConfig struct {
	MaxBodySize    int64
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter wires the public API. Write routes carry the raw token through to
// the pipeline (resolution is its first step); read routes resolve up front
// so handlers only ever see an application id.
func NewRouter(
	cfg RouterConfig,
	logger *slog.Logger,
	tokens domain.TokenRepository,
	ingestUC usecase.IngestUseCase,
	queryUC usecase.QueryUseCase,
) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(chimiddleware.Recoverer)

	ingestHandler := handler.NewIngestHandler(ingestUC, logger, cfg.MaxBodySize)
	queryHandler := handler.NewQueryHandler(queryUC, logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1/logs", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
			r.Use(middleware.BearerToken(logger))
			r.Post("/", ingestHandler.Single)
			r.Post("/batch", ingestHandler.Batch)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens, logger))
			r.Get("/", queryHandler.Search)
			r.Get("/{id}", queryHandler.Get)
		})
	})

	return r
}
