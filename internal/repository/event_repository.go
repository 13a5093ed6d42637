package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"shuttle-service/internal/model"
)

type LogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

// ListBetween returns legs departed in [from, to).
func (r *LogRepository) ListBetween(ctx context.Context, from, to time.Time) ([]model.LogEntry, error) {
	var logs []model.LogEntry
	if err := r.db.WithContext(ctx).
		Where("timestamp >= ? AND timestamp < ?", from, to).
		Order("timestamp ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

type CheckInRepository struct {
	db *gorm.DB
}

func NewCheckInRepository(db *gorm.DB) *CheckInRepository {
	return &CheckInRepository{db: db}
}

// ListBetween returns check-ins recorded in [from, to).
func (r *CheckInRepository) ListBetween(ctx context.Context, from, to time.Time) ([]model.BusCheckIn, error) {
	var checkIns []model.BusCheckIn
	if err := r.db.WithContext(ctx).
		Where("timestamp >= ? AND timestamp < ?", from, to).
		Order("timestamp ASC").
		Find(&checkIns).Error; err != nil {
		return nil, err
	}
	return checkIns, nil
}
