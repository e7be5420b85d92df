package timecalc

import (
	"fmt"
	"time"
)

// PunchOrder is the role of a stamp within a working day.
type PunchOrder int

const (
	WorkStart  PunchOrder = 1
	BreakStart PunchOrder = 2
	BreakEnd   PunchOrder = 3
	WorkEnd    PunchOrder = 4
)

func (o PunchOrder) Valid() bool {
	return o >= WorkStart && o <= WorkEnd
}

func (o PunchOrder) String() string {
	switch o {
	case WorkStart:
		return "work_start"
	case BreakStart:
		return "break_start"
	case BreakEnd:
		return "break_end"
	case WorkEnd:
		return "work_end"
	}
	return fmt.Sprintf("PunchOrder(%d)", int(o))
}

// Punch is the part of a stamp the interpreter needs.
type Punch struct {
	Order      PunchOrder
	StartTime  time.Time
	EndTime    *time.Time
	BreakStart *time.Time
	BreakEnd   *time.Time
}

// OvernightPolicy decides how hourly shifts spanning midnight are measured.
type OvernightPolicy int

const (
	// OvernightTruncate counts an overnight hourly shift only up to midnight.
	OvernightTruncate OvernightPolicy = iota
	// OvernightFullDuration counts the full elapsed time of an overnight hourly shift.
	OvernightFullDuration
)

// ParseOvernightPolicy maps a config value onto a policy. Unknown values truncate.
func ParseOvernightPolicy(s string) OvernightPolicy {
	if s == "full" || s == "full_duration" {
		return OvernightFullDuration
	}
	return OvernightTruncate
}

// DayStatus tells whether a day's punches could be measured.
type DayStatus string

const (
	StatusNoEntries  DayStatus = "no_entries"
	StatusIncomplete DayStatus = "incomplete"
	StatusComplete   DayStatus = "complete"
)

// DayWork is the interpreted result for one user-day.
type DayWork struct {
	Status        DayStatus
	WorkedMinutes int

	WorkStart  *time.Time
	BreakStart *time.Time
	BreakEnd   *time.Time
	WorkEnd    *time.Time
}

// HasEntries reports whether any stamp existed for the day.
func (d DayWork) HasEntries() bool {
	return d.Status != StatusNoEntries
}

// Interpret reconstructs worked minutes from one day's punches. Input order
// does not matter and the slice is not modified. Missing punches are a normal
// state and yield zero minutes.
func Interpret(punches []Punch, hourly bool, policy OvernightPolicy, loc *time.Location) DayWork {
	if loc == nil {
		loc = time.Local
	}
	byOrder := indexByOrder(punches)

	start, ok := byOrder[WorkStart]
	if !ok {
		return DayWork{Status: StatusNoEntries}
	}

	work := DayWork{Status: StatusIncomplete}
	workStart := start.StartTime.In(loc)
	work.WorkStart = &workStart

	if p, ok := byOrder[BreakStart]; ok {
		t := breakStartOf(p).In(loc)
		work.BreakStart = &t
	}
	if p, ok := byOrder[BreakEnd]; ok {
		t := breakEndOf(p).In(loc)
		work.BreakEnd = &t
	}
	if p, ok := byOrder[WorkEnd]; ok {
		t := clockOutOf(p).In(loc)
		work.WorkEnd = &t
	}

	if hourly {
		return interpretHourly(work, byOrder, policy, loc)
	}
	return interpretScheduled(work)
}

func interpretScheduled(work DayWork) DayWork {
	if work.BreakStart == nil || work.BreakEnd == nil || work.WorkEnd == nil {
		return work
	}

	worked := clockSpan(*work.WorkStart, *work.WorkEnd) - clockSpan(*work.BreakStart, *work.BreakEnd)
	if worked < 0 {
		worked = 0
	}
	work.Status = StatusComplete
	work.WorkedMinutes = worked
	return work
}

func interpretHourly(work DayWork, byOrder map[PunchOrder]Punch, policy OvernightPolicy, loc *time.Location) DayWork {
	var end time.Time
	if work.WorkEnd != nil {
		end = *work.WorkEnd
	} else if p, ok := byOrder[BreakStart]; ok {
		// single clock-in/clock-out model: the second stamp closes the shift
		end = clockOutOf(p).In(loc)
		work.WorkEnd = &end
		work.BreakStart = nil
	} else {
		return work
	}

	start := *work.WorkStart
	var worked int
	switch {
	case DateKey(start) == DateKey(end):
		worked = minutesSinceMidnight(end) - minutesSinceMidnight(start)
	case policy == OvernightFullDuration:
		worked = int(end.Sub(start).Minutes())
	default:
		worked = 24*60 - minutesSinceMidnight(start)
	}
	if worked < 0 {
		worked = 0
	}

	work.Status = StatusComplete
	work.WorkedMinutes = worked
	return work
}

// clockSpan is the minutes from a to b on the wall clock, wrapping once past midnight.
func clockSpan(a, b time.Time) int {
	start, end := minutesSinceMidnight(a), minutesSinceMidnight(b)
	if end < start {
		end += 24 * 60
	}
	return end - start
}

// indexByOrder keeps the earliest stamp for every order.
func indexByOrder(punches []Punch) map[PunchOrder]Punch {
	idx := make(map[PunchOrder]Punch, 4)
	for _, p := range punches {
		if !p.Order.Valid() {
			continue
		}
		if cur, ok := idx[p.Order]; ok && !p.StartTime.Before(cur.StartTime) {
			continue
		}
		idx[p.Order] = p
	}
	return idx
}

func breakStartOf(p Punch) time.Time {
	if p.BreakStart != nil {
		return *p.BreakStart
	}
	return p.StartTime
}

func breakEndOf(p Punch) time.Time {
	if p.BreakEnd != nil {
		return *p.BreakEnd
	}
	return p.StartTime
}

func clockOutOf(p Punch) time.Time {
	if p.EndTime != nil {
		return *p.EndTime
	}
	return p.StartTime
}

// FormatClock renders t as HH:MM in loc, or "--:--" when absent.
func FormatClock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "--:--"
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("15:04")
}
