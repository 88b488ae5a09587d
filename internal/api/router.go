package api

import (
	"net/http"

	"github.com/fastprodman/pokerledger/internal/infra/httpmw"
	"github.com/fastprodman/pokerledger/internal/infra/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// NewRouter registers every endpoint of the ledger API. A nil registry
// disables /metrics and request metrics.
func NewRouter(h *HandlerProvider, registry *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	var httpMetrics *metrics.HTTP
	if registry != nil {
		httpMetrics = metrics.NewHTTP(registry)
	}

	r.Use(httpmw.RequestID)
	r.Use(httpmw.Logger(h.logger, httpMetrics))
	r.Use(httpmw.Recoverer(h.logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(registry))
	}

	r.Route("/profiles", func(r chi.Router) {
		r.Post("/", h.CreateProfileHandler)
		r.Get("/", h.ListProfilesHandler)
		r.Get("/{profileId}", h.GetProfileHandler)
		r.Put("/{profileId}", h.UpdateProfileHandler)
		r.Delete("/{profileId}", h.DeleteProfileHandler)
	})

	r.Route("/games", func(r chi.Router) {
		r.Post("/", h.CreateGameHandler)
		r.Get("/", h.ListGamesHandler)

		r.Route("/{gameId}", func(r chi.Router) {
			r.Get("/", h.GetGameHandler)
			r.Delete("/", h.DeleteGameHandler)
			r.Put("/players/{profileId}", h.UpdatePlayerHandler)
			r.Post("/settlements", h.AddSettlementHandler)
			r.Get("/remaining", h.RemainingHandler)
			r.Post("/settle", h.SettleHandler)
		})
	})

	r.Get("/stats", h.StatsHandler)

	return r
}

