package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Route string

const (
	RouteHotelToSite Route = "HOTEL_TO_SITE"
	RouteSiteToHotel Route = "SITE_TO_HOTEL"
)

type LogStatus string

const (
	LogStatusInTransit LogStatus = "IN_TRANSIT"
	LogStatusArrived   LogStatus = "ARRIVED"
)

// LogEntry records one leg driven by a bus. Timestamp is the departure time.
type LogEntry struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Timestamp         time.Time  `gorm:"not null" json:"timestamp"`
	Route             Route      `gorm:"type:log_route;not null" json:"route"`
	DepartLocationID  uuid.UUID  `gorm:"type:uuid;not null" json:"depart_location_id"`
	ArrivalLocationID uuid.UUID  `gorm:"type:uuid;not null" json:"arrival_location_id"`
	PassengerCount    int        `gorm:"not null;default:0" json:"passenger_count"`
	Status            LogStatus  `gorm:"type:log_status;not null" json:"status"`
	ActualArrivalTime *time.Time `json:"actual_arrival_time,omitempty"`
	ETA               *time.Time `gorm:"column:eta" json:"eta,omitempty"`
	Notes             *string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (LogEntry) TableName() string {
	return "log_entries"
}

func (l *LogEntry) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// BusCheckIn marks a bus as physically present at a hotel and ready for boarding.
type BusCheckIn struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Timestamp  time.Time `gorm:"not null" json:"timestamp"`
	LocationID uuid.UUID `gorm:"type:uuid;not null" json:"location_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (BusCheckIn) TableName() string {
	return "bus_check_ins"
}

func (c *BusCheckIn) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
