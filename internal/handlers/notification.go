package handlers

import (
	"encoding/json"
	"net/http"

	"safewalk-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// NotificationHandler handles push notification HTTP requests
type NotificationHandler struct {
	push services.PushSender
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(push services.PushSender) *NotificationHandler {
	return &NotificationHandler{
		push: push,
	}
}

// NotificationRequest represents the request body for a notification
type NotificationRequest struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Send handles POST /send-notification
func (h *NotificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req NotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Token == "" || req.Message == "" {
		respondError(w, "Token and message are required.", http.StatusBadRequest)
		return
	}

	result, err := h.push.Send(ctx, req.Token, req.Message)
	if err != nil {
		log.Error().Err(err).Msg("Failed to send notification")
		respondError(w, "Failed to send notification.", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"response": result,
	})
}
