package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shuttle-service/internal/model"
)

type TripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) *TripRepository {
	return &TripRepository{db: db}
}

func (r *TripRepository) List(ctx context.Context) ([]model.ScheduledTrip, error) {
	var trips []model.ScheduledTrip
	if err := r.db.WithContext(ctx).
		Model(&model.ScheduledTrip{}).
		Order("created_at ASC").
		Find(&trips).Error; err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *TripRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ScheduledTrip, error) {
	var trip model.ScheduledTrip
	if err := r.db.WithContext(ctx).First(&trip, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}
