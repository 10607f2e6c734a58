package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"safewalk-backend/internal/models"

	"github.com/dgraph-io/badger/v4"
)

const locationKeyPrefix = "location:"

// ErrLocationNotFound is returned when a user has never reported a location
var ErrLocationNotFound = errors.New("location not found")

// LocationRepository stores the last known location per user in BadgerDB.
// One record per user, overwritten on every update.
type LocationRepository struct {
	db *badger.DB
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *badger.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// Put writes or overwrites the location record for loc.UserID
func (r *LocationRepository) Put(ctx context.Context, loc *models.LiveLocation) error {
	data, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("failed to marshal location: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(locationKeyPrefix+loc.UserID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to store location: %w", err)
	}
	return nil
}

// Get retrieves the location record for a user
func (r *LocationRepository) Get(ctx context.Context, userID string) (*models.LiveLocation, error) {
	var loc models.LiveLocation

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(locationKeyPrefix + userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrLocationNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get location: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &loc)
		})
	})
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// List returns the current location record of every user
func (r *LocationRepository) List(ctx context.Context) ([]*models.LiveLocation, error) {
	var locations []*models.LiveLocation

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(locationKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var loc models.LiveLocation
				if err := json.Unmarshal(val, &loc); err != nil {
					return fmt.Errorf("failed to unmarshal location: %w", err)
				}
				locations = append(locations, &loc)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}
