// Package service defines the interfaces that connect the timetable feed
// sources to the rest of the application.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/timetable/internal/model"
)

// Source fetches a raw timetable table.
type Source interface {
	// Fetch retrieves the full table. Implementations do not retry.
	Fetch(ctx context.Context) (model.Table, error)
	// Name identifies the source in logs and error messages.
	Name() string
}

// Catalogue reads the semester list and last-update tabs.
type Catalogue interface {
	Semesters(ctx context.Context) (model.SemesterInfo, error)
	LastUpdate(ctx context.Context, semester string) (model.LastUpdate, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
