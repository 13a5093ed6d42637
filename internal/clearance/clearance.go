// Package clearance summarizes, per worksite and shift, how many of the day's
// scheduled trips have reached their expected milestone.
package clearance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"shuttle-service/internal/lifecycle"
	"shuttle-service/internal/model"
)

type Shift string

const (
	ShiftAM Shift = "AM"
	ShiftPM Shift = "PM"
)

func ParseShift(raw string) (Shift, error) {
	switch Shift(strings.ToUpper(strings.TrimSpace(raw))) {
	case ShiftAM:
		return ShiftAM, nil
	case ShiftPM:
		return ShiftPM, nil
	default:
		return "", fmt.Errorf("unknown shift %q", raw)
	}
}

// Result is the clearance summary for one worksite and shift.
type Result struct {
	WorksiteID   uuid.UUID `json:"worksite_id"`
	WorksiteName string    `json:"worksite_name,omitempty"`
	Shift        Shift     `json:"shift"`
	Total        int       `json:"total"`
	Completed    int       `json:"completed"`
	IsClear      bool      `json:"is_clear"`
	TotalPax     int       `json:"total_pax"`
}

// Input carries the current day's collections.
type Input struct {
	TodayTrips     []model.ScheduledTrip
	Logs           []model.LogEntry
	CheckIns       []model.BusCheckIn
	CurrentMinutes int
}

type Aggregator struct {
	resolver *lifecycle.Resolver
}

func NewAggregator(resolver *lifecycle.Resolver) *Aggregator {
	return &Aggregator{resolver: resolver}
}

// Aggregate returns the clearance for worksiteID. The second value is false when
// no trip into the worksite runs the requested shift today.
func (a *Aggregator) Aggregate(worksiteID uuid.UUID, shift Shift, in Input) (Result, bool) {
	res := Result{WorksiteID: worksiteID, Shift: shift}
	for _, trip := range in.TodayTrips {
		if trip.ArrivalLocationID != worksiteID || !runsShift(trip, shift) {
			continue
		}
		lc := a.resolver.ResolveLifecycle(trip, in.Logs, in.CheckIns, false, true, in.CurrentMinutes)
		res.Total++
		if milestoneReached(lc.State, shift) {
			res.Completed++
		}
		if shift == ShiftAM {
			res.TotalPax += lc.AMPax
		} else {
			res.TotalPax += lc.PMPax
		}
	}
	if res.Total == 0 {
		return Result{}, false
	}
	res.IsClear = res.Completed == res.Total
	return res, true
}

// Board aggregates every worksite and orders the reportable ones for display.
func (a *Aggregator) Board(worksites []model.Location, shift Shift, in Input) []Result {
	results := make([]Result, 0, len(worksites))
	for _, w := range worksites {
		res, ok := a.Aggregate(w.ID, shift, in)
		if !ok {
			continue
		}
		res.WorksiteName = w.Name
		results = append(results, res)
	}
	SortForDisplay(results)
	return results
}

// SortForDisplay moves clear worksites after the rest, keeping relative order.
func SortForDisplay(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return !results[i].IsClear && results[j].IsClear
	})
}

func runsShift(trip model.ScheduledTrip, shift Shift) bool {
	if shift == ShiftAM {
		return trip.HasAMShift()
	}
	return trip.HasPMShift()
}

// milestoneReached: AM needs the bus at the worksite, PM needs it back at the hotel.
func milestoneReached(state lifecycle.State, shift Shift) bool {
	if shift == ShiftPM {
		return state == lifecycle.StateComplete
	}
	switch state {
	case lifecycle.StateStage2, lifecycle.StateTransitRet, lifecycle.StateComplete:
		return true
	}
	return false
}
