package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"upo-server/internal/http/handlers"
	"upo-server/internal/infra"
	"upo-server/internal/middleware"
)

func NewRouter(cfg *infra.Config, logger infra.Logger, lookup middleware.CountryLookup, app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.CORS(cfg.AllowedOrigins),
		middleware.Origin(lookup),
		middleware.Logger(logger),
		middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
	)

	// Health
	r.Get("/v1/healthz", app.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/optimize", app.Optimize)
		r.Post("/optimize/batch", app.OptimizeBatch)
		r.Post("/optimize/export", app.OptimizeExport)
		r.Post("/generate/comfy", app.GenerateComfy)

		r.Route("/presets", func(r chi.Router) {
			r.Post("/", app.PresetCreate)
			r.Get("/", app.PresetList)
			r.Get("/{id}", app.PresetGet)
			r.Delete("/{id}", app.PresetDelete)
		})
	})

	// Legacy alias kept for clients of the original optimizer.
	r.Post("/optimize", app.Optimize)

	return r
}
