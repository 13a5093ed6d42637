package lifecycle

import (
	"time"

	"shuttle-service/internal/model"
	"shuttle-service/internal/timeutil"
)

// GracePeriodMinutes is how long after the scheduled hotel arrival a trip with
// no recorded activity stays SCHEDULED before it turns UNCONFIRMED.
const GracePeriodMinutes = 15

// Input is everything one resolution needs. Logs and CheckIns are expected to
// be limited to the day being viewed.
type Input struct {
	Trip           model.ScheduledTrip
	Logs           []model.LogEntry
	CheckIns       []model.BusCheckIn
	IsPastDay      bool
	IsToday        bool
	CurrentMinutes int
}

// Resolver evaluates the transition table for a trip. It holds no state besides
// the location used for the shift boundary and is safe for concurrent use.
type Resolver struct {
	loc *time.Location
}

func NewResolver(loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{loc: loc}
}

// ResolveLifecycle is Resolve with positional arguments.
func (r *Resolver) ResolveLifecycle(trip model.ScheduledTrip, logs []model.LogEntry, checkIns []model.BusCheckIn, isPastDay, isToday bool, currentMinutes int) TripLifecycle {
	return r.Resolve(Input{
		Trip:           trip,
		Logs:           logs,
		CheckIns:       checkIns,
		IsPastDay:      isPastDay,
		IsToday:        isToday,
		CurrentMinutes: currentMinutes,
	})
}

func (r *Resolver) Resolve(in Input) TripLifecycle {
	ev := r.collect(in)
	state := StateScheduled
	for _, t := range transitions {
		if s, ok := t.apply(ev); ok {
			state = s
			break
		}
	}
	return ev.lifecycle(state)
}

// evidence is the per-trip view the transition rules read from.
type evidence struct {
	in       Input
	pmOnly   bool
	manual   bool
	checkIn  *model.BusCheckIn
	outbound *model.LogEntry
	ret      *model.LogEntry
}

func (r *Resolver) collect(in Input) *evidence {
	pmOnly := in.Trip.IsPMOnly()
	return &evidence{
		in:       in,
		pmOnly:   pmOnly,
		checkIn:  r.MatchCheckIn(in.Trip, in.CheckIns, pmOnly),
		outbound: r.MatchOutbound(in.Trip, in.Logs, pmOnly),
		ret:      r.MatchReturn(in.Trip, in.Logs, pmOnly),
	}
}

func (e *evidence) lifecycle(state State) TripLifecycle {
	lc := TripLifecycle{
		State:      state,
		Label:      state.Label(),
		ShortLabel: state.ShortLabel(),
		Tone:       state.Tone(),
		CheckIn:    e.checkIn,
		Outbound:   e.outbound,
		Return:     e.ret,
	}
	switch {
	case !state.carriesPax():
	case e.manual:
		if e.in.Trip.ManualPax != nil && *e.in.Trip.ManualPax > 0 {
			lc.AMPax = *e.in.Trip.ManualPax
		}
	default:
		if e.outbound != nil {
			lc.AMPax = e.outbound.PassengerCount
		}
		if e.ret != nil {
			lc.PMPax = e.ret.PassengerCount
		}
	}
	lc.TotalPax = lc.AMPax + lc.PMPax
	return lc
}

// scheduledMinutes is the hotel arrival time the no-show check compares against:
// the return hotel arrival for PM-only trips, the outbound hotel arrival
// otherwise, falling back to the shift start when the checkpoint is unusable.
func (e *evidence) scheduledMinutes() (int, bool) {
	trip := e.in.Trip
	checkpoint, shiftStart := trip.BusArrivalAtHotel, trip.ShiftStartTime
	if e.pmOnly {
		checkpoint, shiftStart = trip.BusArrivalAtHotelReturn, trip.PMShiftStartTime
	}
	if m, ok := timeutil.ParseOptional(checkpoint); ok {
		return m, true
	}
	return timeutil.ParseOptional(shiftStart)
}

// transition is one row of the resolution table. Rows are evaluated in order
// and the first that applies decides the state.
type transition struct {
	name  string
	apply func(*evidence) (State, bool)
}

var transitions = []transition{
	{name: "cancelled", apply: func(e *evidence) (State, bool) {
		if e.in.Trip.HasManualStatus(model.ManualStatusCancelled) || !e.in.Trip.IsActive {
			return StateCancelled, true
		}
		return "", false
	}},
	{name: "manual-complete", apply: func(e *evidence) (State, bool) {
		if e.in.Trip.HasManualStatus(model.ManualStatusComplete) {
			e.manual = true
			return StateComplete, true
		}
		return "", false
	}},
	{name: "return-arrived", apply: func(e *evidence) (State, bool) {
		return StateComplete, e.ret != nil && e.ret.Status == model.LogStatusArrived
	}},
	{name: "return-in-transit", apply: func(e *evidence) (State, bool) {
		return StateTransitRet, e.ret != nil && e.ret.Status == model.LogStatusInTransit
	}},
	{name: "outbound-arrived", apply: func(e *evidence) (State, bool) {
		return StateStage2, e.outbound != nil && e.outbound.Status == model.LogStatusArrived
	}},
	{name: "outbound-in-transit", apply: func(e *evidence) (State, bool) {
		return StateTransitOut, e.outbound != nil && e.outbound.Status == model.LogStatusInTransit
	}},
	{name: "checked-in", apply: func(e *evidence) (State, bool) {
		return StateStage1, e.checkIn != nil
	}},
	{name: "overdue", apply: func(e *evidence) (State, bool) {
		if e.checkIn != nil || e.outbound != nil || e.ret != nil {
			return "", false
		}
		if e.in.IsPastDay {
			return StateUnconfirmed, true
		}
		scheduled, ok := e.scheduledMinutes()
		if !ok || !e.in.IsToday {
			return "", false
		}
		return StateUnconfirmed, e.in.CurrentMinutes > scheduled+GracePeriodMinutes
	}},
	{name: "scheduled", apply: func(*evidence) (State, bool) {
		return StateScheduled, true
	}},
}

// TransitionNames lists the resolution rules in evaluation order.
func TransitionNames() []string {
	names := make([]string, len(transitions))
	for i, t := range transitions {
		names[i] = t.name
	}
	return names
}
