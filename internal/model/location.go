package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LocationType string

const (
	LocationTypeHotel    LocationType = "HOTEL"
	LocationTypeWorksite LocationType = "WORKSITE"
)

type Location struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name      string       `gorm:"type:varchar(255);not null" json:"name"`
	Type      LocationType `gorm:"type:location_type;not null" json:"type"`
	IsActive  bool         `gorm:"not null;default:true" json:"is_active"`
	Address   *string      `gorm:"type:text" json:"address,omitempty"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Location) TableName() string {
	return "locations"
}

func (l *Location) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// LocationIndex maps location ids to their records for name lookups.
type LocationIndex map[uuid.UUID]Location

func NewLocationIndex(locations []Location) LocationIndex {
	idx := make(LocationIndex, len(locations))
	for _, l := range locations {
		idx[l.ID] = l
	}
	return idx
}

func (idx LocationIndex) Name(id uuid.UUID) string {
	if l, ok := idx[id]; ok {
		return l.Name
	}
	return ""
}

// ActiveWorksites returns active worksites in input order.
func ActiveWorksites(locations []Location) []Location {
	out := make([]Location, 0, len(locations))
	for _, l := range locations {
		if l.Type == LocationTypeWorksite && l.IsActive {
			out = append(out, l)
		}
	}
	return out
}
