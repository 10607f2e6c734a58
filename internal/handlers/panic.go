package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"safewalk-backend/internal/middleware"
	"safewalk-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// PanicHandler handles panic button HTTP requests
type PanicHandler struct {
	panicService *services.PanicService
}

// NewPanicHandler creates a new panic handler
func NewPanicHandler(panicService *services.PanicService) *PanicHandler {
	return &PanicHandler{
		panicService: panicService,
	}
}

// PanicLocation is the caller's position at the moment of the alert
type PanicLocation struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// PanicRequest represents the request body for a panic alert
type PanicRequest struct {
	PhoneNumber string         `json:"phoneNumber"`
	Message     string         `json:"message"`
	Location    *PanicLocation `json:"location"`
}

// Trigger handles POST /panic-button
func (h *PanicHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req PanicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.PhoneNumber == "" || req.Message == "" || req.Location == nil ||
		req.Location.Latitude == nil || req.Location.Longitude == nil {
		respondError(w, "Phone number, message, and location are required.", http.StatusBadRequest)
		return
	}

	err := h.panicService.TriggerPanic(ctx, userID, req.PhoneNumber, req.Message,
		*req.Location.Latitude, *req.Location.Longitude)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to trigger panic button")

		if errors.Is(err, services.ErrSMSFailed) {
			respondError(w, "Failed to send SMS.", http.StatusInternalServerError)
			return
		}
		respondError(w, "Failed to trigger panic button.", http.StatusInternalServerError)
		return
	}

	log.Info().
		Str("user_id", userID).
		Msg("Panic button triggered")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Panic button triggered successfully.",
	})
}
