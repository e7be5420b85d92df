package timesheet

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/timesheet-go/internal/pkg/timecalc"
)

// PunchEvent is one stamp as delivered by a data source.
type PunchEvent struct {
	Username   string
	StartTime  time.Time
	EndTime    *time.Time
	BreakStart *time.Time
	BreakEnd   *time.Time
	PunchOrder timecalc.PunchOrder
	Color      *string
}

// ToPunch strips the event down to what the interpreter reads.
func (p PunchEvent) ToPunch() timecalc.Punch {
	return timecalc.Punch{
		Order:      p.PunchOrder,
		StartTime:  p.StartTime,
		EndTime:    p.EndTime,
		BreakStart: p.BreakStart,
		BreakEnd:   p.BreakEnd,
	}
}

type User struct {
	Username    string
	DisplayName string
	IsAdmin     bool
	Schedule    timecalc.ScheduleConfig
}

// Name is the display name, or the username when none is set.
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// DayPunchGroup holds all punches of one user on one calendar day.
type DayPunchGroup struct {
	Username string
	Date     string
	Punches  []timecalc.Punch
}

// shiftWindow bounds how long after a work start later stamps still belong to it.
const shiftWindow = 24 * time.Hour

// GroupPunches buckets events by user and day. A stamp that follows a work
// start within one shift window, while that shift is still open, is
// attributed to the work start's day so shifts running past midnight stay in
// one group. Every other stamp lands on its own local date. Groups are ordered by username, then date.
func GroupPunches(events []PunchEvent, loc *time.Location) []DayPunchGroup {
	if loc == nil {
		loc = time.Local
	}

	byUser := make(map[string][]PunchEvent)
	for _, e := range events {
		byUser[e.Username] = append(byUser[e.Username], e)
	}

	var groups []DayPunchGroup
	for username, userEvents := range byUser {
		sort.SliceStable(userEvents, func(i, j int) bool {
			return userEvents[i].StartTime.Before(userEvents[j].StartTime)
		})

		index := make(map[string]int)
		var userGroups []DayPunchGroup
		groupFor := func(date string) *DayPunchGroup {
			if i, ok := index[date]; ok {
				return &userGroups[i]
			}
			userGroups = append(userGroups, DayPunchGroup{Username: username, Date: date})
			index[date] = len(userGroups) - 1
			return &userGroups[len(userGroups)-1]
		}

		var shiftDate string
		var shiftStart time.Time
		for _, e := range userEvents {
			local := e.StartTime.In(loc)
			date := timecalc.DateKey(local)

			if e.PunchOrder == timecalc.WorkStart {
				shiftDate, shiftStart = date, local
			} else if shiftDate != "" && local.Sub(shiftStart) < shiftWindow {
				if g := groupFor(shiftDate); !hasOrder(g, e.PunchOrder) && !hasOrder(g, timecalc.WorkEnd) {
					date = shiftDate
				}
			}

			g := groupFor(date)
			g.Punches = append(g.Punches, e.ToPunch())
		}
		groups = append(groups, userGroups...)
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Username != groups[j].Username {
			return groups[i].Username < groups[j].Username
		}
		return groups[i].Date < groups[j].Date
	})
	return groups
}

func hasOrder(g *DayPunchGroup, order timecalc.PunchOrder) bool {
	for _, p := range g.Punches {
		if p.Order == order {
			return true
		}
	}
	return false
}

// EditDay is a resolved admin correction: four absolute times for one user-day.
type EditDay struct {
	Username   string
	Date       time.Time
	WorkStart  time.Time
	BreakStart time.Time
	BreakEnd   time.Time
	WorkEnd    time.Time
}

// Punches renders the correction as the four stamps it replaces the day with.
func (d EditDay) Punches() []PunchEvent {
	return []PunchEvent{
		{Username: d.Username, StartTime: d.WorkStart, PunchOrder: timecalc.WorkStart},
		{Username: d.Username, StartTime: d.BreakStart, BreakStart: timePtr(d.BreakStart), PunchOrder: timecalc.BreakStart},
		{Username: d.Username, StartTime: d.BreakEnd, BreakEnd: timePtr(d.BreakEnd), PunchOrder: timecalc.BreakEnd},
		{Username: d.Username, StartTime: d.WorkEnd, EndTime: timePtr(d.WorkEnd), PunchOrder: timecalc.WorkEnd},
	}
}

func timePtr(t time.Time) *time.Time { return &t }
