package services

import (
	"context"
	"fmt"
	"time"

	"safewalk-backend/internal/models"
)

// LocationStore persists the last known location per user
type LocationStore interface {
	Put(ctx context.Context, loc *models.LiveLocation) error
	List(ctx context.Context) ([]*models.LiveLocation, error)
}

// LocationBroadcaster pushes accepted location updates to connected watchers
type LocationBroadcaster interface {
	BroadcastLocation(loc *models.LiveLocation)
}

// LocationService handles live-location updates and reads
type LocationService struct {
	store       LocationStore
	broadcaster LocationBroadcaster
}

// NewLocationService creates a new location service. The broadcaster may be
// nil when no live fan-out is wanted.
func NewLocationService(store LocationStore, broadcaster LocationBroadcaster) *LocationService {
	return &LocationService{
		store:       store,
		broadcaster: broadcaster,
	}
}

// UpdateLocation overwrites the location record for a user with a
// server-assigned timestamp. Last write wins under concurrent updates.
func (s *LocationService) UpdateLocation(ctx context.Context, userID string, lat, lng float64) (*models.LiveLocation, error) {
	loc := &models.LiveLocation{
		UserID:    userID,
		Latitude:  lat,
		Longitude: lng,
		Timestamp: time.Now().UnixMilli(),
	}

	if err := s.store.Put(ctx, loc); err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastLocation(loc)
	}

	return loc, nil
}

// ListLocations returns the current location of every user
func (s *LocationService) ListLocations(ctx context.Context) ([]*models.LiveLocation, error) {
	locations, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}
