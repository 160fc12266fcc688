package lifecycle

import (
	"strconv"
	"strings"
	"time"
)

// dueDateFormats tried in order when resolving a stored due date.
var dueDateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ResolveDue combines a stored date string and an optional HH:MM time of day
// into a single instant. A valid time of day overrides the time component of
// the resolved date (seconds zeroed). Returns nil when the date cannot be
// parsed: due dates come from legacy or hand-edited rows and an unresolvable
// one simply means "no deadline".
func ResolveDue(dateStr, timeStr string) *time.Time {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return nil
	}

	var t time.Time
	parsed := false
	for _, layout := range dueDateFormats {
		if v, err := time.Parse(layout, dateStr); err == nil {
			t = v
			parsed = true
			break
		}
	}
	if !parsed {
		return nil
	}

	if hour, minute, ok := parseClock(timeStr); ok {
		t = time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location())
	}
	return &t
}

// parseClock parses "HH:MM" into hour and minute.
func parseClock(s string) (int, int, bool) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// ShowTime decides whether a due label should carry a time component: either
// an explicit time of day is stored, or the resolved instant is not midnight.
func ShowTime(due time.Time, explicitTime string) bool {
	if strings.TrimSpace(explicitTime) != "" {
		return true
	}
	return due.Hour() != 0 || due.Minute() != 0
}

// FormatDueLabel formats a due instant for display, converting into the
// recipient's IANA timezone when it is set and loadable. An invalid or
// missing timezone falls back to formatting the instant as stored.
func FormatDueLabel(due time.Time, timezone string, withTime bool) string {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err == nil {
			due = due.In(loc)
		}
	}
	if withTime {
		return due.Format("02.01.2006 15:04")
	}
	return due.Format("02.01.2006")
}
