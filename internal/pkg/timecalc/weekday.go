package timecalc

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is an ISO ordered day of the week. Schedule tables are keyed by it
// instead of by locale formatted day names.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Weekdays lists every Weekday in ISO order.
var Weekdays = [7]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayKeys = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// weekdayNames maps every accepted spelling to its Weekday. English keys are
// what the backend stores; German names come from the product's own locale.
var weekdayNames = map[string]Weekday{
	"monday": Monday, "tuesday": Tuesday, "wednesday": Wednesday, "thursday": Thursday,
	"friday": Friday, "saturday": Saturday, "sunday": Sunday,
	"mon": Monday, "tue": Tuesday, "wed": Wednesday, "thu": Thursday,
	"fri": Friday, "sat": Saturday, "sun": Sunday,
	"montag": Monday, "dienstag": Tuesday, "mittwoch": Wednesday, "donnerstag": Thursday,
	"freitag": Friday, "samstag": Saturday, "sonnabend": Saturday, "sonntag": Sunday,
}

// WeekdayOf maps a time.Weekday (Sunday=0) onto the ISO ordered Weekday.
func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// ParseWeekday resolves a day name case-insensitively.
func ParseWeekday(name string) (Weekday, bool) {
	d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// String returns the lowercase English schedule key, e.g. "monday".
func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayKeys[d]
}

// Valid reports whether d is one of the seven days.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d Weekday) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid weekday %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Weekday) UnmarshalText(text []byte) error {
	v, ok := ParseWeekday(string(text))
	if !ok {
		return fmt.Errorf("unknown weekday %q", string(text))
	}
	*d = v
	return nil
}
