package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shuttle-service/internal/model"
	"shuttle-service/internal/timeutil"
)

func strPtr(s string) *string { return &s }

var (
	grandHotel = model.Location{ID: uuid.New(), Name: "Grand Hotel", Type: model.LocationTypeHotel, IsActive: true}
	harborInn  = model.Location{ID: uuid.New(), Name: "Harbor Inn", Type: model.LocationTypeHotel, IsActive: true}
	northPlant = model.Location{ID: uuid.New(), Name: "North Plant", Type: model.LocationTypeWorksite, IsActive: true}
)

func trip(day string, from, to model.Location, am, pm string) model.ScheduledTrip {
	tr := model.ScheduledTrip{
		ID:                uuid.New(),
		DayOfWeek:         day,
		DepartLocationID:  from.ID,
		ArrivalLocationID: to.ID,
		IsActive:          true,
	}
	if am != "" {
		tr.ShiftStartTime = strPtr(am)
	}
	if pm != "" {
		tr.PMShiftStartTime = strPtr(pm)
	}
	return tr
}

func TestViewFiltersDayAndSorts(t *testing.T) {
	a := trip("Monday", grandHotel, northPlant, "07:30", "")
	b := trip("Monday", harborInn, northPlant, "", "06:00")
	c := trip("monday", grandHotel, northPlant, "06:45", "15:00")
	d := trip("Tuesday", grandHotel, northPlant, "05:00", "")
	e := trip("Monday", harborInn, northPlant, "", "")

	idx := model.NewLocationIndex([]model.Location{grandHotel, harborInn, northPlant})
	got := View([]model.ScheduledTrip{a, b, c, d, e}, idx, Filter{Day: "Monday"})

	require.Len(t, got, 4)
	assert.Equal(t, []uuid.UUID{e.ID, b.ID, c.ID, a.ID}, ids(got))
}

func TestViewSortIsLexicographic(t *testing.T) {
	early := trip("Monday", grandHotel, northPlant, "7:00", "")
	late := trip("Monday", grandHotel, northPlant, "10:00", "")

	got := View([]model.ScheduledTrip{early, late}, nil, Filter{Day: "Monday"})
	assert.Equal(t, []uuid.UUID{late.ID, early.ID}, ids(got))
}

func TestViewShiftFilter(t *testing.T) {
	amOnly := trip("Monday", grandHotel, northPlant, "07:00", "")
	pmOnly := trip("Monday", grandHotel, northPlant, "", "15:00")
	both := trip("Monday", grandHotel, northPlant, "06:00", "16:00")
	all := []model.ScheduledTrip{amOnly, pmOnly, both}

	assert.Equal(t, []uuid.UUID{both.ID, amOnly.ID}, ids(View(all, nil, Filter{Day: "Monday", Shift: ShiftAM})))
	assert.Equal(t, []uuid.UUID{both.ID, pmOnly.ID}, ids(View(all, nil, Filter{Day: "Monday", Shift: ShiftPM})))
	assert.Len(t, View(all, nil, Filter{Day: "Monday", Shift: ShiftAll}), 3)
}

func TestViewSearch(t *testing.T) {
	a := trip("Monday", grandHotel, northPlant, "07:00", "")
	b := trip("Monday", harborInn, northPlant, "08:00", "")
	b.PMExternalID = strPtr("RT-204")
	idx := model.NewLocationIndex([]model.Location{grandHotel, harborInn, northPlant})
	all := []model.ScheduledTrip{a, b}

	assert.Equal(t, []uuid.UUID{a.ID}, ids(View(all, idx, Filter{Day: "Monday", Search: "grand"})))
	assert.Equal(t, []uuid.UUID{b.ID}, ids(View(all, idx, Filter{Day: "Monday", Search: "rt-2"})))
	assert.Len(t, View(all, idx, Filter{Day: "Monday", Search: "north"}), 2)
	assert.Empty(t, View(all, idx, Filter{Day: "Monday", Search: "airport"}))
}

func TestViewLocationFilter(t *testing.T) {
	a := trip("Monday", grandHotel, northPlant, "07:00", "")
	b := trip("Monday", harborInn, northPlant, "08:00", "")
	all := []model.ScheduledTrip{a, b}

	id := harborInn.ID
	assert.Equal(t, []uuid.UUID{b.ID}, ids(View(all, nil, Filter{Day: "Monday", LocationID: &id})))
	site := northPlant.ID
	assert.Len(t, View(all, nil, Filter{Day: "Monday", LocationID: &site}), 2)
}

func TestViewUnknownDay(t *testing.T) {
	all := []model.ScheduledTrip{trip("Monday", grandHotel, northPlant, "07:00", "")}
	assert.Empty(t, View(all, nil, Filter{Day: "Someday"}))
	assert.Empty(t, ForDay(all, ""))
	assert.Len(t, ForDay(all, "MONDAY"), 1)
}

func TestParseShiftFilter(t *testing.T) {
	f, err := ParseShiftFilter("")
	require.NoError(t, err)
	assert.Equal(t, ShiftAll, f)

	f, err = ParseShiftFilter("pm")
	require.NoError(t, err)
	assert.Equal(t, ShiftPM, f)

	_, err = ParseShiftFilter("late")
	assert.Error(t, err)
}

func TestTodaysEvents(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, loc)
	clock := timeutil.NewClockAt(loc, func() time.Time { return now })

	logs := []model.LogEntry{
		{ID: uuid.New(), Timestamp: now.Add(-time.Hour)},
		{ID: uuid.New(), Timestamp: now.Add(-24 * time.Hour)},
	}
	checkIns := []model.BusCheckIn{
		{ID: uuid.New(), Timestamp: now.Add(15 * time.Hour)},
		{ID: uuid.New(), Timestamp: now.Add(2 * time.Hour)},
	}

	gotLogs, gotCheckIns := TodaysEvents(logs, checkIns, clock)
	require.Len(t, gotLogs, 1)
	assert.Equal(t, logs[0].ID, gotLogs[0].ID)
	require.Len(t, gotCheckIns, 1)
	assert.Equal(t, checkIns[1].ID, gotCheckIns[0].ID)
}

func ids(trips []model.ScheduledTrip) []uuid.UUID {
	out := make([]uuid.UUID, len(trips))
	for i, tr := range trips {
		out[i] = tr.ID
	}
	return out
}
