package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ManualStatus string

const (
	ManualStatusComplete  ManualStatus = "COMPLETE"
	ManualStatusCancelled ManualStatus = "CANCELLED"
)

// ScheduledTrip is a recurring hotel to worksite round trip for one day of the week.
// Times are free-text strings as imported from the operator schedule.
type ScheduledTrip struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	DepartLocationID  uuid.UUID `gorm:"type:uuid;not null" json:"depart_location_id"`
	ArrivalLocationID uuid.UUID `gorm:"type:uuid;not null" json:"arrival_location_id"`
	DayOfWeek         string    `gorm:"type:varchar(16);not null" json:"day_of_week"`

	ShiftStartTime   *string `gorm:"column:shift_start_time;type:varchar(16)" json:"shift_start_time"`
	PMShiftStartTime *string `gorm:"column:pm_shift_start_time;type:varchar(16)" json:"pm_shift_start_time"`
	AMExternalID     *string `gorm:"column:am_external_id;type:varchar(64)" json:"am_external_id,omitempty"`
	PMExternalID     *string `gorm:"column:pm_external_id;type:varchar(64)" json:"pm_external_id,omitempty"`

	BusArrivalAtHotel       *string `gorm:"column:bus_arrival_at_hotel;type:varchar(16)" json:"bus_arrival_at_hotel"`
	BoardingBegins          *string `gorm:"column:boarding_begins;type:varchar(16)" json:"boarding_begins"`
	HotelDeparture          *string `gorm:"column:hotel_departure;type:varchar(16)" json:"hotel_departure"`
	BusArrivalAtSite        *string `gorm:"column:bus_arrival_at_site;type:varchar(16)" json:"bus_arrival_at_site"`
	Staging                 *string `gorm:"column:staging;type:varchar(16)" json:"staging"`
	SiteDeparture           *string `gorm:"column:site_departure;type:varchar(16)" json:"site_departure"`
	BusArrivalAtHotelReturn *string `gorm:"column:bus_arrival_at_hotel_return;type:varchar(16)" json:"bus_arrival_at_hotel_return"`

	IsActive     bool          `gorm:"not null;default:true" json:"is_active"`
	ManualStatus *ManualStatus `gorm:"type:manual_status" json:"manual_status,omitempty"`
	ManualPax    *int          `gorm:"column:manual_pax" json:"manual_pax,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ScheduledTrip) TableName() string {
	return "scheduled_trips"
}

func (t *ScheduledTrip) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t ScheduledTrip) HasAMShift() bool {
	return present(t.ShiftStartTime)
}

func (t ScheduledTrip) HasPMShift() bool {
	return present(t.PMShiftStartTime)
}

// HasAnyShift reports whether the trip has an AM or a PM shift start. Trips
// without one carry no lifecycle.
func (t ScheduledTrip) HasAnyShift() bool {
	return t.HasAMShift() || t.HasPMShift()
}

// IsPMOnly reports whether the trip runs a PM shift without an AM shift.
// Trips with both shifts are AM-primary.
func (t ScheduledTrip) IsPMOnly() bool {
	return t.HasPMShift() && !t.HasAMShift()
}

func (t ScheduledTrip) HasManualStatus(status ManualStatus) bool {
	return t.ManualStatus != nil && *t.ManualStatus == status
}

// Value dereferences an optional schedule field, returning "" when unset.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
