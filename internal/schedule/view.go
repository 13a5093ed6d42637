// Package schedule selects and orders the trips shown on the schedule board.
package schedule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"shuttle-service/internal/model"
	"shuttle-service/internal/timeutil"
)

type ShiftFilter string

const (
	ShiftAll ShiftFilter = "ALL"
	ShiftAM  ShiftFilter = "AM"
	ShiftPM  ShiftFilter = "PM"
)

func ParseShiftFilter(raw string) (ShiftFilter, error) {
	switch ShiftFilter(strings.ToUpper(strings.TrimSpace(raw))) {
	case "", ShiftAll:
		return ShiftAll, nil
	case ShiftAM:
		return ShiftAM, nil
	case ShiftPM:
		return ShiftPM, nil
	default:
		return "", fmt.Errorf("unknown shift filter %q", raw)
	}
}

type Filter struct {
	Day        string
	Search     string
	Shift      ShiftFilter
	LocationID *uuid.UUID
}

// View returns the trips scheduled on filter.Day that pass the search, shift and
// location filters, ordered by SortKey.
func View(trips []model.ScheduledTrip, locations model.LocationIndex, filter Filter) []model.ScheduledTrip {
	day := timeutil.NormalizeDay(filter.Day)
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	out := make([]model.ScheduledTrip, 0, len(trips))
	for _, trip := range trips {
		if day == "" || timeutil.NormalizeDay(trip.DayOfWeek) != day {
			continue
		}
		if !matchesShift(trip, filter.Shift) {
			continue
		}
		if filter.LocationID != nil && trip.DepartLocationID != *filter.LocationID && trip.ArrivalLocationID != *filter.LocationID {
			continue
		}
		if search != "" && !matchesSearch(trip, locations, search) {
			continue
		}
		out = append(out, trip)
	}
	SortTrips(out)
	return out
}

// ForDay returns every trip scheduled on day, unfiltered and unsorted.
func ForDay(trips []model.ScheduledTrip, day string) []model.ScheduledTrip {
	day = timeutil.NormalizeDay(day)
	out := make([]model.ScheduledTrip, 0, len(trips))
	for _, trip := range trips {
		if day != "" && timeutil.NormalizeDay(trip.DayOfWeek) == day {
			out = append(out, trip)
		}
	}
	return out
}

// SortKey is the AM shift start when present, otherwise the PM shift start.
func SortKey(trip model.ScheduledTrip) string {
	if trip.HasAMShift() {
		return *trip.ShiftStartTime
	}
	if trip.HasPMShift() {
		return *trip.PMShiftStartTime
	}
	return ""
}

// SortTrips orders trips by raw SortKey string comparison. Ties keep input order.
func SortTrips(trips []model.ScheduledTrip) {
	sort.SliceStable(trips, func(i, j int) bool {
		return SortKey(trips[i]) < SortKey(trips[j])
	})
}

func matchesShift(trip model.ScheduledTrip, shift ShiftFilter) bool {
	switch shift {
	case ShiftAM:
		return trip.HasAMShift()
	case ShiftPM:
		return trip.HasPMShift()
	default:
		return true
	}
}

func matchesSearch(trip model.ScheduledTrip, locations model.LocationIndex, needle string) bool {
	fields := []string{
		locations.Name(trip.DepartLocationID),
		locations.Name(trip.ArrivalLocationID),
		model.Value(trip.AMExternalID),
		model.Value(trip.PMExternalID),
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
