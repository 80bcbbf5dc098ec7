package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps are the services the HTTP API reads from.
type Deps struct {
	Markets        Markets
	PriceFeed      PriceFeed
	FrontendOrigin string
}

// NewRouter builds the HTTP API.
func NewRouter(deps Deps, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	origin := deps.FrontendOrigin
	if origin == "" {
		origin = "*"
	}

	r := chi.NewRouter()
	r.Use(Recover(logger))
	r.Use(Logger(logger))
	r.Use(Metrics())
	r.Use(CORS(origin))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", Health())
	r.Get("/readyz", Ready(deps.Markets))

	r.Route("/api", func(r chi.Router) {
		r.Get("/markets", ListMarkets(deps.Markets, deps.PriceFeed))
		r.Get("/markets/{id}/fdv", MarketFDV(deps.Markets))
		r.Get("/fdv", FDVGrid(deps.Markets))
		r.Post("/refresh", Refresh(deps.Markets))
	})
	return r
}
