package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"shuttle-service/internal/clearance"
	"shuttle-service/internal/lifecycle"
	"shuttle-service/internal/model"
	"shuttle-service/internal/schedule"
	"shuttle-service/internal/timeutil"
)

// Source provides fresh reads of the schedule and event collections.
type Source interface {
	Snapshot(ctx context.Context, from, to time.Time) (*model.Snapshot, error)
	Trip(ctx context.Context, id uuid.UUID) (*model.ScheduledTrip, error)
}

type DashboardService struct {
	source     Source
	clock      *timeutil.Clock
	resolver   *lifecycle.Resolver
	aggregator *clearance.Aggregator
	formatter  *timeutil.Formatter
	log        zerolog.Logger
}

func NewDashboardService(source Source, clock *timeutil.Clock, log zerolog.Logger) *DashboardService {
	resolver := lifecycle.NewResolver(clock.Location())
	return &DashboardService{
		source:     source,
		clock:      clock,
		resolver:   resolver,
		aggregator: clearance.NewAggregator(resolver),
		formatter:  timeutil.NewFormatter(),
		log:        log,
	}
}

type ScheduleQuery struct {
	Day        string
	Search     string
	Shift      string
	LocationID *uuid.UUID
}

type DisplayTimes struct {
	AMShift                 string `json:"am_shift"`
	PMShift                 string `json:"pm_shift"`
	BusArrivalAtHotel       string `json:"bus_arrival_at_hotel"`
	BoardingBegins          string `json:"boarding_begins"`
	HotelDeparture          string `json:"hotel_departure"`
	BusArrivalAtSite        string `json:"bus_arrival_at_site"`
	Staging                 string `json:"staging"`
	SiteDeparture           string `json:"site_departure"`
	BusArrivalAtHotelReturn string `json:"bus_arrival_at_hotel_return"`
}

type ScheduleRow struct {
	Trip        model.ScheduledTrip      `json:"trip"`
	DepartName  string                   `json:"depart_name"`
	ArrivalName string                   `json:"arrival_name"`
	Times       DisplayTimes             `json:"times"`
	Lifecycle   *lifecycle.TripLifecycle `json:"lifecycle,omitempty"` // nil when the trip has no shift start
}

type ScheduleView struct {
	Day       string        `json:"day"`
	IsToday   bool          `json:"is_today"`
	IsPastDay bool          `json:"is_past_day"`
	Rows      []ScheduleRow `json:"rows"`
}

type ClearanceBoard struct {
	Day         string             `json:"day"`
	Shift       clearance.Shift    `json:"shift"`
	GeneratedAt time.Time          `json:"generated_at"`
	Worksites   []clearance.Result `json:"worksites"`
}

// Overview is one refresh cycle's derived output.
type Overview struct {
	Day         string                  `json:"day"`
	GeneratedAt time.Time               `json:"generated_at"`
	AM          ClearanceBoard          `json:"am"`
	PM          ClearanceBoard          `json:"pm"`
	States      map[lifecycle.State]int `json:"states"`
}

// dayContext is the clock reading a request is evaluated against.
type dayContext struct {
	today          string
	currentMinutes int
	from, to       time.Time
	now            time.Time
}

func (s *DashboardService) dayContext() dayContext {
	now := s.clock.Now()
	from, to := timeutil.DayBounds(now)
	return dayContext{
		today:          timeutil.DayName(now),
		currentMinutes: timeutil.MinutesOfDay(now),
		from:           from,
		to:             to,
		now:            now,
	}
}

func (s *DashboardService) snapshot(ctx context.Context, dc dayContext) (*model.Snapshot, []model.LogEntry, []model.BusCheckIn, error) {
	snap, err := s.source.Snapshot(ctx, dc.from, dc.to)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load snapshot: %w", err)
	}
	logs, checkIns := schedule.TodaysEvents(snap.Logs, snap.CheckIns, s.clock)
	return snap, logs, checkIns, nil
}

// Schedule resolves every trip on the requested day (today when empty) that
// passes the filters. Only today's events count as evidence; other days see none.
func (s *DashboardService) Schedule(ctx context.Context, q ScheduleQuery) (*ScheduleView, error) {
	filter, err := scheduleFilter(q)
	if err != nil {
		return nil, err
	}

	dc := s.dayContext()
	snap, logs, checkIns, err := s.snapshot(ctx, dc)
	if err != nil {
		return nil, err
	}
	return s.scheduleView(snap, logs, checkIns, dc, filter), nil
}

// scheduleFilter validates the query. An empty day is left for scheduleView
// to fill with today.
func scheduleFilter(q ScheduleQuery) (schedule.Filter, error) {
	filter := schedule.Filter{Search: q.Search, LocationID: q.LocationID}
	if q.Day != "" {
		filter.Day = timeutil.NormalizeDay(q.Day)
		if filter.Day == "" {
			return filter, fmt.Errorf("%w: unknown day %q", ErrInvalidInput, q.Day)
		}
	}
	shift, err := schedule.ParseShiftFilter(q.Shift)
	if err != nil {
		return filter, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	filter.Shift = shift
	return filter, nil
}

func (s *DashboardService) scheduleView(snap *model.Snapshot, logs []model.LogEntry, checkIns []model.BusCheckIn, dc dayContext, filter schedule.Filter) *ScheduleView {
	if filter.Day == "" {
		filter.Day = dc.today
	}
	isToday := filter.Day == dc.today
	isPast := timeutil.IsPastDay(filter.Day, dc.today)
	if !isToday {
		logs, checkIns = nil, nil
	}

	locations := model.NewLocationIndex(snap.Locations)
	trips := schedule.View(snap.Trips, locations, filter)

	rows := make([]ScheduleRow, 0, len(trips))
	for _, trip := range trips {
		rows = append(rows, s.row(trip, locations, logs, checkIns, isPast, isToday, dc.currentMinutes))
	}

	return &ScheduleView{Day: filter.Day, IsToday: isToday, IsPastDay: isPast, Rows: rows}
}

func (s *DashboardService) row(trip model.ScheduledTrip, locations model.LocationIndex, logs []model.LogEntry, checkIns []model.BusCheckIn, isPast, isToday bool, currentMinutes int) ScheduleRow {
	row := ScheduleRow{
		Trip:        trip,
		DepartName:  locations.Name(trip.DepartLocationID),
		ArrivalName: locations.Name(trip.ArrivalLocationID),
		Times:       s.displayTimes(trip),
	}
	// a trip with no shift start would claim the legs of the real trips on its pair
	if trip.HasAnyShift() {
		lc := s.resolver.ResolveLifecycle(trip, logs, checkIns, isPast, isToday, currentMinutes)
		row.Lifecycle = &lc
	}
	return row
}

func (s *DashboardService) TripLifecycle(ctx context.Context, id uuid.UUID) (*ScheduleRow, error) {
	trip, err := s.source.Trip(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	dc := s.dayContext()
	snap, logs, checkIns, err := s.snapshot(ctx, dc)
	if err != nil {
		return nil, err
	}

	day := timeutil.NormalizeDay(trip.DayOfWeek)
	isToday := day == dc.today
	if !isToday {
		logs, checkIns = nil, nil
	}

	row := s.row(*trip, model.NewLocationIndex(snap.Locations), logs, checkIns, timeutil.IsPastDay(day, dc.today), isToday, dc.currentMinutes)
	return &row, nil
}

func (s *DashboardService) Clearance(ctx context.Context, rawShift string) (*ClearanceBoard, error) {
	shift, err := clearance.ParseShift(rawShift)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	dc := s.dayContext()
	snap, logs, checkIns, err := s.snapshot(ctx, dc)
	if err != nil {
		return nil, err
	}

	board := s.board(snap, logs, checkIns, dc, shift)
	return &board, nil
}

func (s *DashboardService) WorksiteClearance(ctx context.Context, worksiteID uuid.UUID, rawShift string) (*clearance.Result, error) {
	shift, err := clearance.ParseShift(rawShift)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	dc := s.dayContext()
	snap, logs, checkIns, err := s.snapshot(ctx, dc)
	if err != nil {
		return nil, err
	}

	res, ok := s.aggregator.Aggregate(worksiteID, shift, clearance.Input{
		TodayTrips:     schedule.ForDay(snap.Trips, dc.today),
		Logs:           logs,
		CheckIns:       checkIns,
		CurrentMinutes: dc.currentMinutes,
	})
	if !ok {
		return nil, ErrNotFound
	}
	res.WorksiteName = model.NewLocationIndex(snap.Locations).Name(worksiteID)
	return &res, nil
}

// Overview derives both clearance boards and the per-state trip counts for
// today from a single snapshot.
func (s *DashboardService) Overview(ctx context.Context) (*Overview, error) {
	dc := s.dayContext()
	snap, logs, checkIns, err := s.snapshot(ctx, dc)
	if err != nil {
		return nil, err
	}
	return s.overview(snap, logs, checkIns, dc), nil
}

func (s *DashboardService) overview(snap *model.Snapshot, logs []model.LogEntry, checkIns []model.BusCheckIn, dc dayContext) *Overview {
	states := make(map[lifecycle.State]int, len(lifecycle.AllStates()))
	for _, st := range lifecycle.AllStates() {
		states[st] = 0
	}
	for _, trip := range schedule.ForDay(snap.Trips, dc.today) {
		if !trip.HasAnyShift() {
			continue
		}
		lc := s.resolver.ResolveLifecycle(trip, logs, checkIns, false, true, dc.currentMinutes)
		states[lc.State]++
	}

	return &Overview{
		Day:         dc.today,
		GeneratedAt: dc.now,
		AM:          s.board(snap, logs, checkIns, dc, clearance.ShiftAM),
		PM:          s.board(snap, logs, checkIns, dc, clearance.ShiftPM),
		States:      states,
	}
}

func (s *DashboardService) board(snap *model.Snapshot, logs []model.LogEntry, checkIns []model.BusCheckIn, dc dayContext, shift clearance.Shift) ClearanceBoard {
	results := s.aggregator.Board(model.ActiveWorksites(snap.Locations), shift, clearance.Input{
		TodayTrips:     schedule.ForDay(snap.Trips, dc.today),
		Logs:           logs,
		CheckIns:       checkIns,
		CurrentMinutes: dc.currentMinutes,
	})
	return ClearanceBoard{
		Day:         dc.today,
		Shift:       shift,
		GeneratedAt: dc.now,
		Worksites:   results,
	}
}

func (s *DashboardService) displayTimes(trip model.ScheduledTrip) DisplayTimes {
	f := s.formatter
	return DisplayTimes{
		AMShift:                 f.FormatOptional(trip.ShiftStartTime),
		PMShift:                 f.FormatOptional(trip.PMShiftStartTime),
		BusArrivalAtHotel:       f.FormatOptional(trip.BusArrivalAtHotel),
		BoardingBegins:          f.FormatOptional(trip.BoardingBegins),
		HotelDeparture:          f.FormatOptional(trip.HotelDeparture),
		BusArrivalAtSite:        f.FormatOptional(trip.BusArrivalAtSite),
		Staging:                 f.FormatOptional(trip.Staging),
		SiteDeparture:           f.FormatOptional(trip.SiteDeparture),
		BusArrivalAtHotelReturn: f.FormatOptional(trip.BusArrivalAtHotelReturn),
	}
}
