package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shuttle-service/internal/clearance"
	"shuttle-service/internal/lifecycle"
	"shuttle-service/internal/model"
	"shuttle-service/internal/timeutil"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Snapshot(ctx context.Context, from, to time.Time) (*model.Snapshot, error) {
	args := m.Called(ctx, from, to)
	if snap := args.Get(0); snap != nil {
		return snap.(*model.Snapshot), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSource) Trip(ctx context.Context, id uuid.UUID) (*model.ScheduledTrip, error) {
	args := m.Called(ctx, id)
	if trip := args.Get(0); trip != nil {
		return trip.(*model.ScheduledTrip), args.Error(1)
	}
	return nil, args.Error(1)
}

func strPtr(s string) *string { return &s }

// dashboardFixture is Monday 2026-10-19 08:30 in Los Angeles with three hotels,
// two worksites and a handful of trips.
type dashboardFixture struct {
	loc     *time.Location
	hotel   model.Location
	siteA   model.Location
	siteB   model.Location
	arrived model.ScheduledTrip
	pending model.ScheduledTrip
	overdue model.ScheduledTrip
	tuesday model.ScheduledTrip
	snap    *model.Snapshot
	source  *mockSource
	svc     *DashboardService
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	f := &dashboardFixture{
		loc:   loc,
		hotel: model.Location{ID: uuid.New(), Name: "Harbor Inn", Type: model.LocationTypeHotel, IsActive: true},
		siteA: model.Location{ID: uuid.New(), Name: "North Yard", Type: model.LocationTypeWorksite, IsActive: true},
		siteB: model.Location{ID: uuid.New(), Name: "South Yard", Type: model.LocationTypeWorksite, IsActive: true},
	}

	bayview := model.Location{ID: uuid.New(), Name: "Bayview Lodge", Type: model.LocationTypeHotel, IsActive: true}
	cedar := model.Location{ID: uuid.New(), Name: "Cedar Suites", Type: model.LocationTypeHotel, IsActive: true}

	trip := func(hotel model.Location, day, am string) model.ScheduledTrip {
		return model.ScheduledTrip{
			ID:                uuid.New(),
			DepartLocationID:  hotel.ID,
			ArrivalLocationID: f.siteA.ID,
			DayOfWeek:         day,
			ShiftStartTime:    strPtr(am),
			IsActive:          true,
		}
	}
	f.arrived = trip(f.hotel, "Monday", "7:00")
	f.arrived.AMExternalID = strPtr("AM-100")
	f.pending = trip(bayview, "Monday", "9:00")
	f.overdue = trip(cedar, "Monday", "6:00")
	f.overdue.BusArrivalAtHotel = strPtr("6:00")
	f.tuesday = trip(f.hotel, "Tuesday", "7:00")

	f.snap = &model.Snapshot{
		Trips:     []model.ScheduledTrip{f.pending, f.arrived, f.tuesday, f.overdue},
		Locations: []model.Location{f.hotel, bayview, cedar, f.siteA, f.siteB},
		Logs: []model.LogEntry{
			{
				ID:                uuid.New(),
				Timestamp:         time.Date(2026, 10, 19, 7, 10, 0, 0, loc),
				Route:             model.RouteHotelToSite,
				DepartLocationID:  f.hotel.ID,
				ArrivalLocationID: f.siteA.ID,
				PassengerCount:    20,
				Status:            model.LogStatusArrived,
			},
		},
	}

	f.source = &mockSource{}
	clock := timeutil.NewClockAt(loc, func() time.Time {
		return time.Date(2026, 10, 19, 8, 30, 0, 0, loc)
	})
	f.svc = NewDashboardService(f.source, clock, zerolog.New(io.Discard))
	return f
}

func (f *dashboardFixture) expectSnapshot() {
	from := time.Date(2026, 10, 19, 0, 0, 0, 0, f.loc)
	f.source.On("Snapshot", mock.Anything, from, from.AddDate(0, 0, 1)).Return(f.snap, nil)
}

func TestScheduleToday(t *testing.T) {
	f := newDashboardFixture(t)
	f.expectSnapshot()

	view, err := f.svc.Schedule(context.Background(), ScheduleQuery{})
	require.NoError(t, err)

	assert.Equal(t, "Monday", view.Day)
	assert.True(t, view.IsToday)
	assert.False(t, view.IsPastDay)
	require.Len(t, view.Rows, 3)

	assert.Equal(t, f.overdue.ID, view.Rows[0].Trip.ID)
	assert.Equal(t, lifecycle.StateUnconfirmed, view.Rows[0].Lifecycle.State)

	assert.Equal(t, f.arrived.ID, view.Rows[1].Trip.ID)
	assert.Equal(t, lifecycle.StateStage2, view.Rows[1].Lifecycle.State)
	assert.Equal(t, 20, view.Rows[1].Lifecycle.AMPax)
	assert.Equal(t, "Harbor Inn", view.Rows[1].DepartName)
	assert.Equal(t, "North Yard", view.Rows[1].ArrivalName)
	assert.Equal(t, "7:00AM", view.Rows[1].Times.AMShift)
	assert.Equal(t, "-", view.Rows[1].Times.PMShift)

	assert.Equal(t, f.pending.ID, view.Rows[2].Trip.ID)
	assert.Equal(t, lifecycle.StateScheduled, view.Rows[2].Lifecycle.State)
	f.source.AssertExpectations(t)
}

func TestScheduleOtherDayIgnoresTodaysEvents(t *testing.T) {
	f := newDashboardFixture(t)
	f.expectSnapshot()

	view, err := f.svc.Schedule(context.Background(), ScheduleQuery{Day: "tuesday"})
	require.NoError(t, err)

	assert.Equal(t, "Tuesday", view.Day)
	assert.False(t, view.IsToday)
	assert.False(t, view.IsPastDay)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, lifecycle.StateScheduled, view.Rows[0].Lifecycle.State)
}

func TestScheduleSearch(t *testing.T) {
	f := newDashboardFixture(t)
	f.expectSnapshot()

	view, err := f.svc.Schedule(context.Background(), ScheduleQuery{Search: "am-1"})
	require.NoError(t, err)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, f.arrived.ID, view.Rows[0].Trip.ID)
}

func TestScheduleRejectsBadInput(t *testing.T) {
	f := newDashboardFixture(t)

	_, err := f.svc.Schedule(context.Background(), ScheduleQuery{Day: "Someday"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Schedule(context.Background(), ScheduleQuery{Shift: "night"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	f.source.AssertNotCalled(t, "Snapshot", mock.Anything, mock.Anything, mock.Anything)
}

func TestScheduleSourceError(t *testing.T) {
	f := newDashboardFixture(t)
	boom := errors.New("connection refused")
	f.source.On("Snapshot", mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)

	_, err := f.svc.Schedule(context.Background(), ScheduleQuery{})
	assert.ErrorIs(t, err, boom)
}

func TestTripLifecycle(t *testing.T) {
	f := newDashboardFixture(t)
	f.expectSnapshot()
	f.source.On("Trip", mock.Anything, f.arrived.ID).Return(&f.arrived, nil)

	row, err := f.svc.TripLifecycle(context.Background(), f.arrived.ID)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StateStage2, row.Lifecycle.State)
	assert.Equal(t, "At Site", row.Lifecycle.Label)
	require.NotNil(t, row.Lifecycle.Outbound)
	assert.Equal(t, f.snap.Logs[0].ID, row.Lifecycle.Outbound.ID)
}

func TestTripLifecycleNotFound(t *testing.T) {
	f := newDashboardFixture(t)
	id := uuid.New()
	f.source.On("Trip", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.TripLifecycle(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClearance(t *testing.T) {
	f := newDashboardFixture(t)
	f.expectSnapshot()

	board, err := f.svc.Clearance(context.Background(), "am")
	require.NoError(t, err)

	assert.Equal(t, clearance.ShiftAM, board.Shift)
	assert.Equal(t, "Monday", board.Day)
	require.Len(t, board.Worksites, 1)

	res := board.Worksites[0]
	assert.Equal(t, f.siteA.ID, res.WorksiteID)
	assert.Equal(t, "North Yard", res.WorksiteName)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Completed)
	assert.False(t, res.IsClear)
	assert.Equal(t, 20, res.TotalPax)
}

func TestClearanceRequiresShift(t *testing.T) {
	f := newDashboardFixture(t)

	_, err := f.svc.Clearance(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWorksiteClearance(t *testing.T) {
	f := newDashboardFixture(t)
	f.expectSnapshot()

	res, err := f.svc.WorksiteClearance(context.Background(), f.siteA.ID, "AM")
	require.NoError(t, err)
	assert.Equal(t, "North Yard", res.WorksiteName)
	assert.Equal(t, 3, res.Total)

	_, err = f.svc.WorksiteClearance(context.Background(), f.siteB.ID, "AM")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.WorksiteClearance(context.Background(), f.siteA.ID, "PM")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOverview(t *testing.T) {
	f := newDashboardFixture(t)
	f.expectSnapshot()

	ov, err := f.svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Monday", ov.Day)
	assert.Len(t, ov.AM.Worksites, 1)
	assert.Empty(t, ov.PM.Worksites)
	assert.Equal(t, 1, ov.States[lifecycle.StateStage2])
	assert.Equal(t, 1, ov.States[lifecycle.StateScheduled])
	assert.Equal(t, 1, ov.States[lifecycle.StateUnconfirmed])
	assert.Equal(t, 0, ov.States[lifecycle.StateComplete])
	assert.Len(t, ov.States, len(lifecycle.AllStates()))
}

func (f *dashboardFixture) addShiftlessTrip() model.ScheduledTrip {
	trip := model.ScheduledTrip{
		ID:                uuid.New(),
		DepartLocationID:  f.hotel.ID,
		ArrivalLocationID: f.siteA.ID,
		DayOfWeek:         "Monday",
		IsActive:          true,
	}
	f.snap.Trips = append(f.snap.Trips, trip)
	return trip
}

func TestShiftlessTripListedWithoutLifecycle(t *testing.T) {
	f := newDashboardFixture(t)
	shiftless := f.addShiftlessTrip()
	f.expectSnapshot()

	view, err := f.svc.Schedule(context.Background(), ScheduleQuery{})
	require.NoError(t, err)
	require.Len(t, view.Rows, 4)

	var found bool
	for _, row := range view.Rows {
		if row.Trip.ID == shiftless.ID {
			found = true
			assert.Nil(t, row.Lifecycle)
			continue
		}
		require.NotNil(t, row.Lifecycle)
	}
	assert.True(t, found)

	for _, row := range view.Rows {
		if row.Trip.ID == f.arrived.ID {
			assert.Equal(t, lifecycle.StateStage2, row.Lifecycle.State)
			assert.Equal(t, 20, row.Lifecycle.AMPax)
		}
	}
}

func TestShiftlessTripNotCountedInOverview(t *testing.T) {
	f := newDashboardFixture(t)
	f.addShiftlessTrip()
	f.expectSnapshot()

	ov, err := f.svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, ov.States[lifecycle.StateStage2])
	total := 0
	for _, n := range ov.States {
		total += n
	}
	assert.Equal(t, 3, total)

	require.Len(t, ov.AM.Worksites, 1)
	assert.Equal(t, 3, ov.AM.Worksites[0].Total)
	assert.Equal(t, 20, ov.AM.Worksites[0].TotalPax)
}

func TestShiftlessTripLifecycleIsEmpty(t *testing.T) {
	f := newDashboardFixture(t)
	shiftless := f.addShiftlessTrip()
	f.expectSnapshot()
	f.source.On("Trip", mock.Anything, shiftless.ID).Return(&shiftless, nil)

	row, err := f.svc.TripLifecycle(context.Background(), shiftless.ID)
	require.NoError(t, err)
	assert.Nil(t, row.Lifecycle)
	assert.Equal(t, "Harbor Inn", row.DepartName)
}

func TestScheduleYesterdaySundayIsPast(t *testing.T) {
	f := newDashboardFixture(t)
	sunday := f.arrived
	sunday.ID = uuid.New()
	sunday.DayOfWeek = "Sunday"
	f.snap.Trips = append(f.snap.Trips, sunday)
	f.expectSnapshot()

	view, err := f.svc.Schedule(context.Background(), ScheduleQuery{Day: "Sunday"})
	require.NoError(t, err)

	assert.True(t, view.IsPastDay)
	assert.False(t, view.IsToday)
	require.Len(t, view.Rows, 1)
	require.NotNil(t, view.Rows[0].Lifecycle)
	assert.Equal(t, lifecycle.StateUnconfirmed, view.Rows[0].Lifecycle.State)
}
