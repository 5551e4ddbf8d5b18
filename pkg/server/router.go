package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dvfviz/dvfserve/pkg/live"
)

// SetupRoutes configures all HTTP routes and returns the root handler.
// CORS and request logging wrap the whole router so preflight requests
// and 404s are covered too.
func SetupRoutes(router *mux.Router, handler *Handler, hub *live.Hub) http.Handler {
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", handler.HandleHealth).Methods("GET")
	api.HandleFunc("/cache/reload", handler.HandleReload).Methods("POST")

	// DVF queries
	api.HandleFunc("/dvf/years", handler.HandleYears).Methods("GET")
	api.HandleFunc("/dvf/arrondissements", handler.HandleSummary).Methods("GET")
	api.HandleFunc("/dvf/arrondissements/{code_commune}/timeseries", handler.HandleTimeseries).Methods("GET")
	api.HandleFunc("/dvf/stats", handler.HandleStats).Methods("GET")

	// WebSocket for snapshot reload notifications
	api.HandleFunc("/ws", live.Handler(hub)).Methods("GET")

	return corsMiddleware(loggingMiddleware(router))
}
