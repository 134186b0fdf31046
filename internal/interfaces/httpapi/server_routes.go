package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fpl-pulse/internal/platform/metrics"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, m *metrics.Manager, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerEngineRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues/{leagueID}/awards", handler.GetLeagueAwards)
	mux.HandleFunc("GET /v1/entries/{entryID}/pulse", handler.GetEntryPulse)
}
