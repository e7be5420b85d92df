package timecalc

import (
	"fmt"
	"time"
)

// DayResult is one computed user-day.
type DayResult struct {
	Date            string
	Status          DayStatus
	WorkedMinutes   int
	ExpectedMinutes int
	DiffMinutes     int
}

// DayDiff is worked minus expected for a measured day. Days without a full
// punch set stay neutral.
func DayDiff(worked, expected int, status DayStatus) int {
	if status != StatusComplete {
		return 0
	}
	return worked - expected
}

// FormatDiff renders a signed minute count, e.g. "+30 min" or "-15 min".
// Zero renders as "+0 min".
func FormatDiff(minutes int) string {
	return fmt.Sprintf("%+d min", minutes)
}

// WeekTotal sums the diffs of the days that had at least one punch. Days
// without punches add nothing and are not treated as absences.
func WeekTotal(days []DayResult) int {
	total := 0
	for _, d := range days {
		if d.Status == StatusNoEntries {
			continue
		}
		total += d.DiffMinutes
	}
	return total
}

// VacationCredit is the worked minutes an approved vacation day is worth.
// A half day is credited with half the expectation so that working the other
// half nets zero.
func VacationCredit(expected int, halfDay bool) int {
	if expected <= 0 {
		return 0
	}
	if halfDay {
		return expected / 2
	}
	return expected
}

// ComputeDay runs the interpreter and the resolver for one user-day and folds
// the result, including any vacation credit, into a DayResult.
func ComputeDay(day DayInput) (DayResult, DayWork) {
	work := Interpret(day.Punches, day.Schedule.IsHourly, day.Policy, day.Location)
	expected := ExpectedMinutes(day.Date, day.Schedule, day.FallbackHours)

	res := DayResult{
		Date:            DateKey(day.Date),
		Status:          work.Status,
		WorkedMinutes:   work.WorkedMinutes,
		ExpectedMinutes: expected,
	}

	if day.Vacation != nil {
		credit := VacationCredit(expected, day.Vacation.HalfDay)
		switch {
		case work.Status == StatusComplete:
			res.WorkedMinutes += credit
		case !day.Vacation.HalfDay:
			res.WorkedMinutes = credit
			res.Status = StatusComplete
		}
	}

	res.DiffMinutes = DayDiff(res.WorkedMinutes, res.ExpectedMinutes, res.Status)
	return res, work
}

// Vacation marks an approved absence covering a day.
type Vacation struct {
	HalfDay bool
}

// DayInput is everything ComputeDay needs for one user-day.
type DayInput struct {
	Date          time.Time
	Punches       []Punch
	Schedule      ScheduleConfig
	FallbackHours float64
	Policy        OvernightPolicy
	Location      *time.Location
	Vacation      *Vacation
}
