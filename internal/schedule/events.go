package schedule

import (
	"shuttle-service/internal/model"
	"shuttle-service/internal/timeutil"
)

// TodaysEvents keeps the logs and check-ins stamped on the clock's current day.
func TodaysEvents(logs []model.LogEntry, checkIns []model.BusCheckIn, clock *timeutil.Clock) ([]model.LogEntry, []model.BusCheckIn) {
	todayLogs := make([]model.LogEntry, 0, len(logs))
	for _, l := range logs {
		if clock.OnToday(l.Timestamp) {
			todayLogs = append(todayLogs, l)
		}
	}
	todayCheckIns := make([]model.BusCheckIn, 0, len(checkIns))
	for _, c := range checkIns {
		if clock.OnToday(c.Timestamp) {
			todayCheckIns = append(todayCheckIns, c)
		}
	}
	return todayLogs, todayCheckIns
}
