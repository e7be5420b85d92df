package timesheet

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/timesheet-go/internal/domain/request"
	"github.com/cmlabs-hris/timesheet-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/export"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/validator"
)

var errBackendDown = errors.New("backend down")

type fakeUsers struct {
	users     []timesheet.User
	err       error
	schedules map[string]timecalc.ScheduleConfig
}

func (f *fakeUsers) ListUsers(ctx context.Context) ([]timesheet.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

func (f *fakeUsers) UpdateSchedule(ctx context.Context, username string, cfg timecalc.ScheduleConfig) error {
	for _, u := range f.users {
		if u.Username == username {
			if f.schedules == nil {
				f.schedules = make(map[string]timecalc.ScheduleConfig)
			}
			f.schedules[username] = cfg
			return nil
		}
	}
	return timesheet.ErrUserNotFound
}

type fakePunches struct {
	events   []timesheet.PunchEvent
	err      error
	from, to time.Time
	replaced []timesheet.EditDay
}

func (f *fakePunches) ListPunches(ctx context.Context, from, to time.Time) ([]timesheet.PunchEvent, error) {
	f.from, f.to = from, to
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakePunches) ReplaceDay(ctx context.Context, day timesheet.EditDay) error {
	f.replaced = append(f.replaced, day)
	return nil
}

type fakeVacations struct {
	vacations []request.VacationRequest
	err       error
	filter    request.ListFilter
}

func (f *fakeVacations) ListVacations(ctx context.Context, filter request.ListFilter) ([]request.VacationRequest, error) {
	f.filter = filter
	if f.err != nil {
		return nil, f.err
	}
	var out []request.VacationRequest
	for _, v := range f.vacations {
		if filter.MatchVacation(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVacations) GetVacation(ctx context.Context, id string) (request.VacationRequest, error) {
	return request.VacationRequest{}, request.ErrVacationNotFound
}

func (f *fakeVacations) SaveVacationDecision(ctx context.Context, v request.VacationRequest) error {
	return nil
}

type fixture struct {
	loc       *time.Location
	users     *fakeUsers
	punches   *fakePunches
	vacations *fakeVacations
	snapshots *SnapshotStore
	svc       timesheet.TimesheetService
	txCalls   int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	at := func(day, hour, min int) time.Time {
		return time.Date(2024, time.January, day, hour, min, 0, 0, loc)
	}
	ptr := func(t time.Time) *time.Time { return &t }

	f := &fixture{loc: loc}
	f.users = &fakeUsers{users: []timesheet.User{
		{Username: "bob", Schedule: timecalc.ScheduleConfig{IsHourly: true}},
		{
			Username:    "anna",
			DisplayName: "Anna",
			Schedule: timecalc.ScheduleConfig{
				ScheduleCycle:  1,
				WeeklySchedule: []timecalc.WeekTemplate{timecalc.DefaultWeekTemplate()},
			},
		},
	}}
	f.punches = &fakePunches{events: []timesheet.PunchEvent{
		// Monday: 510 worked against 480
		{Username: "anna", StartTime: at(8, 8, 0), PunchOrder: timecalc.WorkStart},
		{Username: "anna", StartTime: at(8, 12, 0), PunchOrder: timecalc.BreakStart},
		{Username: "anna", StartTime: at(8, 12, 30), PunchOrder: timecalc.BreakEnd},
		{Username: "anna", StartTime: at(8, 17, 0), EndTime: ptr(at(8, 17, 0)), PunchOrder: timecalc.WorkEnd},
		// Tuesday: 465 worked against 480
		{Username: "anna", StartTime: at(9, 8, 0), PunchOrder: timecalc.WorkStart},
		{Username: "anna", StartTime: at(9, 12, 0), PunchOrder: timecalc.BreakStart},
		{Username: "anna", StartTime: at(9, 12, 15), PunchOrder: timecalc.BreakEnd},
		{Username: "anna", StartTime: at(9, 16, 0), PunchOrder: timecalc.WorkEnd},
		// Wednesday: clocked in only
		{Username: "anna", StartTime: at(10, 8, 0), PunchOrder: timecalc.WorkStart},
		// bob works across midnight
		{Username: "bob", StartTime: at(8, 22, 0), PunchOrder: timecalc.WorkStart},
		{Username: "bob", StartTime: at(9, 2, 0), EndTime: ptr(at(9, 2, 0)), PunchOrder: timecalc.WorkEnd},
		// unknown users are ignored
		{Username: "ghost", StartTime: at(8, 9, 0), PunchOrder: timecalc.WorkStart},
	}}
	f.vacations = &fakeVacations{vacations: []request.VacationRequest{
		{ID: "v1", Username: "anna", StartDate: "2024-01-11", EndDate: "2024-01-11", Decision: request.Decision{Approved: true}},
		{ID: "v2", Username: "anna", StartDate: "2024-01-12", Decision: request.Decision{Denied: true}},
	}}
	f.snapshots = NewSnapshotStore(time.Hour)

	runInTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		f.txCalls++
		return fn(ctx)
	}
	f.svc = NewTimesheetService(f.users, f.punches, f.vacations, f.snapshots, runInTx, Config{
		Location:      loc,
		FallbackHours: 8,
		Policy:        timecalc.OvernightTruncate,
	})
	return f
}

func TestGetWeeklyDashboard(t *testing.T) {
	f := newFixture(t)

	d, err := f.svc.GetWeeklyDashboard(context.Background(), timesheet.WeeklyReportRequest{Week: "2024-01-10", Lang: i18n.English})
	require.NoError(t, err)

	assert.Equal(t, "2024-01-08", d.WeekStart)
	assert.Equal(t, "2024-01-14", d.WeekEnd)
	assert.Empty(t, d.StaleSources)
	require.Len(t, d.Users, 2)

	// punches are fetched with one day of margin on each side
	assert.Equal(t, time.Date(2024, 1, 7, 0, 0, 0, 0, f.loc), f.punches.from)
	assert.Equal(t, time.Date(2024, 1, 16, 0, 0, 0, 0, f.loc), f.punches.to)
	assert.Equal(t, request.StatusApproved, f.vacations.filter.Status)

	anna := d.Users[0]
	assert.Equal(t, "anna", anna.Username)
	require.Len(t, anna.Days, 7)

	mon := anna.Days[0]
	assert.Equal(t, "2024-01-08", mon.Date)
	assert.Equal(t, "Mon 08.01.", mon.Label)
	assert.Equal(t, "08:00", mon.WorkStart)
	assert.Equal(t, "12:30", mon.BreakEnd)
	assert.Equal(t, 510, mon.WorkedMinutes)
	assert.Equal(t, 480, mon.ExpectedMinutes)
	assert.Equal(t, "+30 min", mon.Diff)
	assert.Equal(t, string(timecalc.StatusComplete), mon.Status)

	assert.Equal(t, "-15 min", anna.Days[1].Diff)

	wed := anna.Days[2]
	assert.Equal(t, string(timecalc.StatusIncomplete), wed.Status)
	assert.Equal(t, "--:--", wed.WorkEnd)
	assert.Equal(t, "+0 min", wed.Diff)

	thu := anna.Days[3]
	assert.Equal(t, "full_day", thu.Vacation)
	assert.Equal(t, 480, thu.WorkedMinutes)
	assert.Equal(t, 0, thu.DiffMinutes)

	fri := anna.Days[4]
	assert.Empty(t, fri.Vacation)
	assert.Equal(t, string(timecalc.StatusNoEntries), fri.Status)
	assert.Equal(t, "no entries", fri.StatusLabel)

	assert.Equal(t, 15, anna.TotalDiffMinutes)
	assert.Equal(t, "+15 min", anna.TotalDiff)
	assert.Equal(t, 510+465+480, anna.TotalWorkedMinutes)
	assert.Equal(t, 3*480, anna.TotalExpectedMinutes)

	bob := d.Users[1]
	assert.Equal(t, "bob", bob.DisplayName)
	assert.True(t, bob.IsHourly)
	assert.Equal(t, 120, bob.Days[0].WorkedMinutes)
	assert.Equal(t, "02:00", bob.Days[0].WorkEnd)
	assert.Equal(t, string(timecalc.StatusNoEntries), bob.Days[1].Status)
	assert.Equal(t, "+120 min", bob.TotalDiff)
}

func TestGetWeeklyDashboard_German(t *testing.T) {
	f := newFixture(t)

	d, err := f.svc.GetWeeklyDashboard(context.Background(), timesheet.WeeklyReportRequest{Week: "2024-01-08", Lang: i18n.German})
	require.NoError(t, err)
	assert.Equal(t, i18n.WeekdayShort(i18n.German, timecalc.Monday)+" 08.01.", d.Users[0].Days[0].Label)
	assert.Equal(t, i18n.Status(i18n.German, timecalc.StatusComplete), d.Users[0].Days[0].StatusLabel)
}

func TestGetWeeklyDashboard_InvalidWeek(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetWeeklyDashboard(context.Background(), timesheet.WeeklyReportRequest{Week: "08.01.2024"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestGetWeeklyDashboard_StaleSources(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := timesheet.WeeklyReportRequest{Week: "2024-01-08"}

	_, err := f.svc.GetWeeklyDashboard(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 3, f.snapshots.Len())

	f.punches.err = errBackendDown
	f.vacations.err = errBackendDown

	d, err := f.svc.GetWeeklyDashboard(ctx, req)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{sourcePunches, sourceVacations}, d.StaleSources)
	assert.Equal(t, 510, d.Users[0].Days[0].WorkedMinutes)
	assert.Equal(t, "full_day", d.Users[0].Days[3].Vacation)

	// another week has no snapshot to fall back to
	_, err = f.svc.GetWeeklyDashboard(ctx, timesheet.WeeklyReportRequest{Week: "2024-02-05"})
	assert.ErrorIs(t, err, timesheet.ErrSourceUnavailable)
}

func TestGetWeeklyDashboard_VacationsDownWithoutSnapshot(t *testing.T) {
	f := newFixture(t)
	f.vacations.err = errBackendDown

	d, err := f.svc.GetWeeklyDashboard(context.Background(), timesheet.WeeklyReportRequest{Week: "2024-01-08"})
	require.NoError(t, err)
	assert.Equal(t, []string{sourceVacations}, d.StaleSources)
	assert.Empty(t, d.Users[0].Days[3].Vacation)
	assert.Equal(t, string(timecalc.StatusNoEntries), d.Users[0].Days[3].Status)
}

func TestGetWeeklyDashboard_UsersDown(t *testing.T) {
	f := newFixture(t)
	f.users.err = errBackendDown

	_, err := f.svc.GetWeeklyDashboard(context.Background(), timesheet.WeeklyReportRequest{Week: "2024-01-08"})
	assert.ErrorIs(t, err, timesheet.ErrSourceUnavailable)
}

func TestGetUserWeek(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	week, err := f.svc.GetUserWeek(ctx, timesheet.WeeklyReportRequest{Week: "2024-01-08", Username: "bob"})
	require.NoError(t, err)
	assert.Equal(t, "bob", week.Username)
	assert.Equal(t, 120, week.TotalDiffMinutes)

	_, err = f.svc.GetUserWeek(ctx, timesheet.WeeklyReportRequest{Week: "2024-01-08", Username: "carol"})
	assert.ErrorIs(t, err, timesheet.ErrUserNotFound)

	_, err = f.svc.GetUserWeek(ctx, timesheet.WeeklyReportRequest{Week: "2024-01-08"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestEditDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetWeeklyDashboard(ctx, timesheet.WeeklyReportRequest{Week: "2024-01-08"})
	require.NoError(t, err)

	err = f.svc.EditDay(ctx, timesheet.EditDayRequest{
		TargetUsername: "bob",
		Date:           "2024-01-09",
		WorkStart:      "22:00",
		BreakStart:     "23:00",
		BreakEnd:       "23:30",
		WorkEnd:        "06:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.txCalls)
	require.Len(t, f.punches.replaced, 1)

	day := f.punches.replaced[0]
	assert.Equal(t, "bob", day.Username)
	assert.Equal(t, time.Date(2024, 1, 9, 22, 0, 0, 0, f.loc), day.WorkStart)
	assert.Equal(t, time.Date(2024, 1, 9, 23, 30, 0, 0, f.loc), day.BreakEnd)
	assert.Equal(t, time.Date(2024, 1, 10, 6, 0, 0, 0, f.loc), day.WorkEnd)

	// the week's punch snapshot is dropped after a write
	_, _, ok := f.snapshots.Get(sourcePunches, "2024-01-08")
	assert.False(t, ok)
}

func TestEditDay_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.EditDay(ctx, timesheet.EditDayRequest{
		TargetUsername: "anna",
		Date:           "2024-01-09",
		WorkStart:      "08:00",
		BreakStart:     "12:00",
		BreakEnd:       "11:00",
		WorkEnd:        "17:00",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "break_end", verrs[0].Field)

	err = f.svc.EditDay(ctx, timesheet.EditDayRequest{TargetUsername: "anna", Date: "2024-01-09", WorkStart: "8:00"})
	assert.ErrorAs(t, err, &verrs)
	assert.Empty(t, f.punches.replaced)
	assert.Equal(t, 0, f.txCalls)
}

func TestUpdateSchedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.UpdateSchedule(ctx, timesheet.UpdateScheduleRequest{
		TargetUsername: "anna",
		ScheduleCycle:  2,
		WeeklySchedule: []timecalc.WeekTemplate{{timecalc.Monday: 6}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.ScheduleCycle)
	require.Len(t, res.WeeklySchedule, 2)
	assert.Equal(t, 6.0, res.WeeklySchedule[0][timecalc.Monday])
	assert.Equal(t, 8.0, res.WeeklySchedule[1][timecalc.Monday])
	assert.Equal(t, 2, f.users.schedules["anna"].ScheduleCycle)

	_, err = f.svc.UpdateSchedule(ctx, timesheet.UpdateScheduleRequest{TargetUsername: "carol", ScheduleCycle: 1})
	assert.ErrorIs(t, err, timesheet.ErrUserNotFound)

	_, err = f.svc.UpdateSchedule(ctx, timesheet.UpdateScheduleRequest{TargetUsername: "anna", ScheduleCycle: 0})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestExportWeek(t *testing.T) {
	f := newFixture(t)

	file, err := f.svc.ExportWeek(context.Background(), timesheet.WeeklyReportRequest{Week: "2024-01-10", Lang: i18n.German})
	require.NoError(t, err)
	assert.Equal(t, "timesheet_2024-01-08.xlsx", file.Filename)
	assert.Equal(t, export.ContentTypeXLSX, file.ContentType)
	assert.NotEmpty(t, file.Data)
}

func TestSnapshotStore_Prune(t *testing.T) {
	s := NewSnapshotStore(time.Hour)
	base := time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC)

	s.Put(sourceUsers, allWeeks, []timesheet.User{{Username: "anna"}}, base)
	s.Put(sourcePunches, "2024-01-08", []timesheet.PunchEvent{}, base.Add(50*time.Minute))

	assert.Equal(t, 1, s.Prune(base.Add(90*time.Minute)))
	assert.Equal(t, 1, s.Len())

	_, ok := loadSnapshot[[]timesheet.User](s, sourceUsers, allWeeks)
	assert.False(t, ok)
	punches, ok := loadSnapshot[[]timesheet.PunchEvent](s, sourcePunches, "2024-01-08")
	assert.True(t, ok)
	assert.Empty(t, punches)

	// wrong type reads as missing
	_, ok = loadSnapshot[[]timesheet.User](s, sourcePunches, "2024-01-08")
	assert.False(t, ok)

	assert.Equal(t, 0, NewSnapshotStore(0).Prune(base))
}
