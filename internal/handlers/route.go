package handlers

import (
	"encoding/json"
	"net/http"

	"safewalk-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// RouteHandler handles safe-route HTTP requests
type RouteHandler struct {
	routeService *services.RouteService
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routeService *services.RouteService) *RouteHandler {
	return &RouteHandler{
		routeService: routeService,
	}
}

// RouteRequest represents the request body for a route calculation
type RouteRequest struct {
	Start []float64 `json:"start"`
	End   []float64 `json:"end"`
}

// CalculateRoute handles POST /safe-route
func (h *RouteHandler) CalculateRoute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Start) != 2 || len(req.End) != 2 {
		respondError(w, "Invalid coordinates provided.", http.StatusBadRequest)
		return
	}

	route, err := h.routeService.CalculateRoute(ctx, req.Start, req.End)
	if err != nil {
		log.Error().Err(err).Msg("Failed to calculate safe route")
		respondError(w, "Failed to calculate safe route.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(route)
}
