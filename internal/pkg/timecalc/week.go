package timecalc

import "time"

// DateKeyLayout is the canonical day key used for grouping and lookups.
const DateKeyLayout = "2006-01-02"

// MondayOf returns Monday 00:00:00 of the week containing t, in t's location.
func MondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Sunday=6, Monday=0
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, t.Location())
}

// DateKey formats t as YYYY-MM-DD from its local calendar fields, never UTC.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses a YYYY-MM-DD key as midnight in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateKeyLayout, key, loc)
}

// AddDays shifts t by n calendar days. The wall clock is preserved across DST changes.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// WeekDays returns the seven days starting at the Monday of t's week.
func WeekDays(t time.Time) [7]time.Time {
	var days [7]time.Time
	monday := MondayOf(t)
	for i := range days {
		days[i] = AddDays(monday, i)
	}
	return days
}

// daysBetween counts calendar days from a to b using civil dates only, so
// DST transitions and the locations of a and b do not matter.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func minutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
