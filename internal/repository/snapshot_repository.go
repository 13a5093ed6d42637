package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shuttle-service/internal/model"
)

// SnapshotRepository reads the four source collections for one refresh cycle.
type SnapshotRepository struct {
	trips     *TripRepository
	logs      *LogRepository
	checkIns  *CheckInRepository
	locations *LocationRepository
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{
		trips:     NewTripRepository(db),
		logs:      NewLogRepository(db),
		checkIns:  NewCheckInRepository(db),
		locations: NewLocationRepository(db),
	}
}

// Snapshot loads every trip and location, and the events stamped in [from, to).
func (r *SnapshotRepository) Snapshot(ctx context.Context, from, to time.Time) (*model.Snapshot, error) {
	trips, err := r.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	logs, err := r.logs.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	checkIns, err := r.checkIns.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	locations, err := r.locations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return &model.Snapshot{
		Trips:     trips,
		Logs:      logs,
		CheckIns:  checkIns,
		Locations: locations,
		FetchedAt: time.Now(),
	}, nil
}

func (r *SnapshotRepository) Trip(ctx context.Context, id uuid.UUID) (*model.ScheduledTrip, error) {
	return r.trips.GetByID(ctx, id)
}
