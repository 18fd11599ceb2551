// Package store provides the activity log storage interface and SQLite implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rcliao/babylog/internal/model"
)

// ErrNotFound is returned when a record does not exist or was deleted.
var ErrNotFound = errors.New("not found")

// AddParams holds parameters for logging an activity.
type AddParams struct {
	Kind   model.Kind
	Start  time.Time
	End    *time.Time // nil for instantaneous activities
	Amount *float64
	Note   string
}

// ListParams holds parameters for listing activities.
type ListParams struct {
	Kind  model.Kind
	Since time.Time // zero means unbounded
	Until time.Time // zero means unbounded
	Limit int
}

// RmParams holds parameters for deleting an activity.
type RmParams struct {
	ID   string
	Hard bool
}

// Store defines the activity log storage interface.
type Store interface {
	// Add logs an activity and returns it with its assigned ID.
	Add(ctx context.Context, p AddParams) (*model.ActivityRecord, error)

	// Get retrieves an activity by ID.
	Get(ctx context.Context, id string) (*model.ActivityRecord, error)

	// List returns activities matching the filters, newest first.
	List(ctx context.Context, p ListParams) ([]model.ActivityRecord, error)

	// All returns every activity started at or after since, oldest first.
	All(ctx context.Context, since time.Time) ([]model.ActivityRecord, error)

	// Rm soft-deletes (or hard-deletes) an activity.
	Rm(ctx context.Context, p RmParams) error

	// Close closes the store.
	Close() error
}
