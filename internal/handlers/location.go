package handlers

import (
	"encoding/json"
	"net/http"

	"safewalk-backend/internal/middleware"
	"safewalk-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// LocationHandler handles live-location HTTP requests
type LocationHandler struct {
	locationService *services.LocationService
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(locationService *services.LocationService) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
	}
}

// UpdateLocationRequest represents the request body for a location update.
// Pointers distinguish an absent coordinate from a zero one.
type UpdateLocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// LocationEntry is one user's position in the map-view list
type LocationEntry struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UpdateLocation handles POST /live-location/update-location
func (h *LocationHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UpdateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Latitude == nil || req.Longitude == nil {
		respondError(w, "Latitude and longitude are required.", http.StatusBadRequest)
		return
	}

	if _, err := h.locationService.UpdateLocation(ctx, userID, *req.Latitude, *req.Longitude); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to update location")
		respondError(w, "Failed to update location.", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Location updated successfully.",
	})
}

// ListLocations handles GET /live-location
func (h *LocationHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	locations, err := h.locationService.ListLocations(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch live locations")
		respondError(w, "Failed to fetch live locations.", http.StatusInternalServerError)
		return
	}

	entries := make([]LocationEntry, 0, len(locations))
	for _, loc := range locations {
		entries = append(entries, LocationEntry{
			ID:  loc.UserID,
			Lat: loc.Latitude,
			Lng: loc.Longitude,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"locations": entries,
	})
}
