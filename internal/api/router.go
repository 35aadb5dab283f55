package api

import (
	"net/http"
	"road-status-service/internal/api/handlers"
	"road-status-service/internal/platform/obs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Dependencies are the handlers the router exposes. This is the API
// composition root; handlers stay unaware of concrete adapters.
type Dependencies struct {
	Health          *handlers.HealthHandler
	Roadworks       *handlers.RoadworkHandler
	Routes          *handlers.RouteHandler
	Regions         *handlers.RegionHandler
	AlternateRoutes *handlers.AlternateRouteHandler
	AllowedOrigins  []string
}

// NewRouter wires HTTP handlers and returns an http.Handler.
func NewRouter(deps Dependencies) http.Handler {
	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{requestIDHeader},
	}))

	r.Get("/health", deps.Health.Health)
	r.Handle("/metrics", obs.Handler())

	r.Get("/roadworks", deps.Roadworks.List)
	r.Get("/roadworks/critical", deps.Roadworks.Critical)
	r.Get("/roadworks/{id}/navigation", deps.Roadworks.Navigation)

	r.Post("/routes", deps.Routes.Plan)

	r.Get("/regions", deps.Regions.List)
	r.Get("/regions/lookup", deps.Regions.Lookup)

	r.Post("/alternate-routes/parse", deps.AlternateRoutes.Parse)

	return r
}
