package services

import (
	"context"
	"errors"
	"fmt"
)

// ErrSMSFailed marks a panic alert that failed before any state was written
var ErrSMSFailed = errors.New("failed to send SMS")

// PanicService dispatches panic alerts: an SMS to the chosen contact
// followed by a live-location write for the caller. The SMS goes first;
// if it fails the location is left untouched and the whole alert fails.
type PanicService struct {
	sms       SMSSender
	locations *LocationService
}

// NewPanicService creates a new panic alert dispatcher
func NewPanicService(sms SMSSender, locations *LocationService) *PanicService {
	return &PanicService{
		sms:       sms,
		locations: locations,
	}
}

// TriggerPanic sends the SMS and then records the caller's location.
// An SMS already sent is not rolled back if the location write fails.
func (s *PanicService) TriggerPanic(ctx context.Context, userID, phoneNumber, message string, lat, lng float64) error {
	if err := s.sms.Send(ctx, phoneNumber, message); err != nil {
		return fmt.Errorf("%w: %s", ErrSMSFailed, err)
	}

	if _, err := s.locations.UpdateLocation(ctx, userID, lat, lng); err != nil {
		return fmt.Errorf("failed to record panic location: %w", err)
	}

	return nil
}
