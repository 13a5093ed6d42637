package lifecycle

import (
	"bytes"
	"time"

	"github.com/google/uuid"

	"shuttle-service/internal/model"
	"shuttle-service/internal/timeutil"
)

// ShiftBoundaryHour splits AM from PM activity: events before 14:00 local time
// belong to the AM shift, events at or after it to the PM shift.
const ShiftBoundaryHour = 14

func (r *Resolver) inShift(ts time.Time, pmOnly bool) bool {
	hour := timeutil.HourIn(ts, r.loc)
	if pmOnly {
		return hour >= ShiftBoundaryHour
	}
	return hour < ShiftBoundaryHour
}

// MatchCheckIn returns the earliest check-in at the trip's hotel within the trip's shift.
func (r *Resolver) MatchCheckIn(trip model.ScheduledTrip, checkIns []model.BusCheckIn, pmOnly bool) *model.BusCheckIn {
	var best *model.BusCheckIn
	for i := range checkIns {
		c := checkIns[i]
		if c.LocationID != trip.DepartLocationID || !r.inShift(c.Timestamp, pmOnly) {
			continue
		}
		if best == nil || earlier(c.Timestamp, c.ID[:], best.Timestamp, best.ID[:]) {
			best = &c
		}
	}
	return best
}

// MatchOutbound returns the earliest hotel to site leg for the trip's pair within the trip's shift.
func (r *Resolver) MatchOutbound(trip model.ScheduledTrip, logs []model.LogEntry, pmOnly bool) *model.LogEntry {
	return r.matchLeg(logs, model.RouteHotelToSite, trip.DepartLocationID, trip.ArrivalLocationID, func(ts time.Time) bool {
		return r.inShift(ts, pmOnly)
	})
}

// MatchReturn returns the earliest site to hotel leg for the trip's pair. PM-only
// trips are gated by the shift boundary; AM trips accept a return at any hour.
func (r *Resolver) MatchReturn(trip model.ScheduledTrip, logs []model.LogEntry, pmOnly bool) *model.LogEntry {
	return r.matchLeg(logs, model.RouteSiteToHotel, trip.ArrivalLocationID, trip.DepartLocationID, func(ts time.Time) bool {
		if !pmOnly {
			return true
		}
		return r.inShift(ts, true)
	})
}

func (r *Resolver) matchLeg(logs []model.LogEntry, route model.Route, from, to uuid.UUID, inWindow func(time.Time) bool) *model.LogEntry {
	var best *model.LogEntry
	for i := range logs {
		l := logs[i]
		if l.Route != route || l.DepartLocationID != from || l.ArrivalLocationID != to {
			continue
		}
		if !inWindow(l.Timestamp) {
			continue
		}
		if best == nil || earlier(l.Timestamp, l.ID[:], best.Timestamp, best.ID[:]) {
			best = &l
		}
	}
	return best
}

// earlier orders by timestamp, then by id bytes so ties resolve the same way
// regardless of input order.
func earlier(ts time.Time, id []byte, bestTS time.Time, bestID []byte) bool {
	if !ts.Equal(bestTS) {
		return ts.Before(bestTS)
	}
	return bytes.Compare(id, bestID) < 0
}
