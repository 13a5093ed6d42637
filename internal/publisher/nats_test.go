package publisher

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shuttle-service/internal/clearance"
	"shuttle-service/internal/service"
)

func TestClearanceSubject(t *testing.T) {
	assert.Equal(t, "shuttle.clearance.am", ClearanceSubject("shuttle", clearance.ShiftAM))
	assert.Equal(t, "shuttle.clearance.pm", ClearanceSubject("shuttle", clearance.ShiftPM))
	assert.Equal(t, "fleet_west.clearance.am", ClearanceSubject(" fleet west ", clearance.ShiftAM))
	assert.Equal(t, "_.clearance.pm", ClearanceSubject("", clearance.ShiftPM))
}

func TestSubjectToken(t *testing.T) {
	cases := map[string]string{
		"plain":     "plain",
		"a.b":       "a_b",
		"wild*card": "wild_card",
		"tail>":     "tail_",
		"   ":       "_",
	}
	for in, want := range cases {
		assert.Equal(t, want, subjectToken(in), in)
	}
}

func TestNewClearanceMessage(t *testing.T) {
	generated := time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)
	site := uuid.New()

	msg := NewClearanceMessage(service.ClearanceBoard{
		Day:         "Monday",
		Shift:       clearance.ShiftAM,
		GeneratedAt: generated,
		Worksites: []clearance.Result{
			{WorksiteID: site, WorksiteName: "North Yard", Shift: clearance.ShiftAM, Total: 2, Completed: 2, IsClear: true, TotalPax: 31},
		},
	})

	b, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "Monday", decoded["day"])
	assert.Equal(t, "AM", decoded["shift"])
	assert.Equal(t, "2026-10-19T15:30:00Z", decoded["generatedAt"])

	worksites := decoded["worksites"].([]interface{})
	require.Len(t, worksites, 1)
	first := worksites[0].(map[string]interface{})
	assert.Equal(t, site.String(), first["worksite_id"])
	assert.Equal(t, true, first["is_clear"])
}

func TestNewClearanceMessageEmptyBoard(t *testing.T) {
	msg := NewClearanceMessage(service.ClearanceBoard{Day: "Monday", Shift: clearance.ShiftPM})

	b, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"worksites":[]`)
}
