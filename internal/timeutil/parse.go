package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

const missingTime = "--:--"

// ParseTimeToMinutes converts "H:MM" or "HH:MM", optionally suffixed with AM/PM,
// to minutes since midnight. Without a suffix the hour is read as 24-hour time.
// Empty, "--:--" and malformed input report false.
func ParseTimeToMinutes(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == missingTime {
		return 0, false
	}

	upper := strings.ToUpper(s)
	meridiem := ""
	if strings.HasSuffix(upper, "AM") || strings.HasSuffix(upper, "PM") {
		meridiem = upper[len(upper)-2:]
		upper = strings.TrimSpace(upper[:len(upper)-2])
	}

	parts := strings.Split(upper, ":")
	if len(parts) != 2 {
		return 0, false
	}
	if len(parts[0]) < 1 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, false
	}
	hour, ok := digits(parts[0])
	if !ok {
		return 0, false
	}
	minute, ok := digits(parts[1])
	if !ok || minute > 59 {
		return 0, false
	}

	switch meridiem {
	case "":
		if hour > 23 {
			return 0, false
		}
	default:
		if hour < 1 || hour > 12 {
			return 0, false
		}
		hour %= 12
		if meridiem == "PM" {
			hour += 12
		}
	}
	return hour*60 + minute, true
}

// ParseOptional is ParseTimeToMinutes for nullable schedule fields.
func ParseOptional(s *string) (int, bool) {
	if s == nil {
		return 0, false
	}
	return ParseTimeToMinutes(*s)
}

func digits(s string) (int, bool) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatMinutes renders minutes since midnight as "H:MMAM"/"H:MMPM".
func FormatMinutes(minutes int) string {
	minutes = ((minutes % 1440) + 1440) % 1440
	hour, minute := minutes/60, minutes%60
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d%s", hour, minute, suffix)
}

// Formatter converts raw schedule times to display form. Results are memoized
// per exact input string; the table belongs to the Formatter instance.
type Formatter struct {
	mu    sync.RWMutex
	cache map[string]string
}

func NewFormatter() *Formatter {
	return &Formatter{cache: make(map[string]string)}
}

func (f *Formatter) Format(raw string) string {
	f.mu.RLock()
	out, ok := f.cache[raw]
	f.mu.RUnlock()
	if ok {
		return out
	}

	out = formatForDisplay(raw)

	f.mu.Lock()
	f.cache[raw] = out
	f.mu.Unlock()
	return out
}

func (f *Formatter) FormatOptional(raw *string) string {
	if raw == nil {
		return "-"
	}
	return f.Format(*raw)
}

// Len returns the number of memoized inputs.
func (f *Formatter) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.cache)
}

func formatForDisplay(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || s == missingTime {
		return "-"
	}
	upper := strings.ToUpper(s)
	if strings.Contains(upper, "AM") || strings.Contains(upper, "PM") {
		return s
	}
	minutes, ok := ParseTimeToMinutes(s)
	if !ok {
		return s
	}
	return FormatMinutes(minutes)
}
