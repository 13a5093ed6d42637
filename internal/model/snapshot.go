package model

import "time"

// Snapshot is one refresh cycle's read of the four source collections.
type Snapshot struct {
	Trips     []ScheduledTrip
	Logs      []LogEntry
	CheckIns  []BusCheckIn
	Locations []Location
	FetchedAt time.Time
}
