package timesheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/timesheet-go/internal/domain/request"
	"github.com/cmlabs-hris/timesheet-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/export"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/validator"
)

// TxRunner runs fn so that repository calls made with its ctx commit or roll
// back together.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// NoTx runs fn directly. Used for sources without transactions.
func NoTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type Config struct {
	Location      *time.Location
	FallbackHours float64
	Policy        timecalc.OvernightPolicy
}

type timesheetServiceImpl struct {
	users     timesheet.UserRepository
	punches   timesheet.PunchRepository
	vacations request.VacationRepository
	snapshots *SnapshotStore
	runInTx   TxRunner
	cfg       Config
	now       func() time.Time
}

func NewTimesheetService(
	users timesheet.UserRepository,
	punches timesheet.PunchRepository,
	vacations request.VacationRepository,
	snapshots *SnapshotStore,
	runInTx TxRunner,
	cfg Config,
) timesheet.TimesheetService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.FallbackHours <= 0 {
		cfg.FallbackHours = timecalc.DefaultExpectedHours
	}
	if runInTx == nil {
		runInTx = NoTx
	}
	if snapshots == nil {
		snapshots = NewSnapshotStore(0)
	}
	return &timesheetServiceImpl{
		users:     users,
		punches:   punches,
		vacations: vacations,
		snapshots: snapshots,
		runInTx:   runInTx,
		cfg:       cfg,
		now:       time.Now,
	}
}

// GetWeeklyDashboard implements timesheet.TimesheetService.
func (s *timesheetServiceImpl) GetWeeklyDashboard(ctx context.Context, req timesheet.WeeklyReportRequest) (timesheet.WeeklyDashboard, error) {
	if err := req.Validate(); err != nil {
		return timesheet.WeeklyDashboard{}, err
	}
	return s.buildDashboard(ctx, req)
}

// GetUserWeek implements timesheet.TimesheetService.
func (s *timesheetServiceImpl) GetUserWeek(ctx context.Context, req timesheet.WeeklyReportRequest) (timesheet.UserWeekReport, error) {
	if err := req.Validate(); err != nil {
		return timesheet.UserWeekReport{}, err
	}
	if req.Username == "" {
		return timesheet.UserWeekReport{}, validator.ValidationErrors{{
			Field:   "username",
			Message: "username is required",
		}}
	}

	dashboard, err := s.buildDashboard(ctx, req)
	if err != nil {
		return timesheet.UserWeekReport{}, err
	}
	if len(dashboard.Users) == 0 {
		return timesheet.UserWeekReport{}, timesheet.ErrUserNotFound
	}
	return dashboard.Users[0], nil
}

// ExportWeek implements timesheet.TimesheetService.
func (s *timesheetServiceImpl) ExportWeek(ctx context.Context, req timesheet.WeeklyReportRequest) (timesheet.ExportFile, error) {
	dashboard, err := s.GetWeeklyDashboard(ctx, req)
	if err != nil {
		return timesheet.ExportFile{}, err
	}

	data, err := export.WeeklyXLSX(dashboard, req.Lang)
	if err != nil {
		return timesheet.ExportFile{}, fmt.Errorf("failed to render weekly export: %w", err)
	}

	return timesheet.ExportFile{
		Filename:    export.Filename(dashboard.WeekStart),
		ContentType: export.ContentTypeXLSX,
		Data:        data,
	}, nil
}

// EditDay implements timesheet.TimesheetService.
func (s *timesheetServiceImpl) EditDay(ctx context.Context, req timesheet.EditDayRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	day, err := s.resolveEditDay(req)
	if err != nil {
		return err
	}

	err = s.runInTx(ctx, func(ctx context.Context) error {
		return s.punches.ReplaceDay(ctx, day)
	})
	if err != nil {
		return fmt.Errorf("failed to replace day: %w", err)
	}

	s.snapshots.Invalidate(sourcePunches, timecalc.DateKey(timecalc.MondayOf(day.Date)))
	slog.Info("day edited", "username", day.Username, "date", req.Date)
	return nil
}

// resolveEditDay anchors the four clock values on the requested date. A value
// earlier than work start belongs to the following day.
func (s *timesheetServiceImpl) resolveEditDay(req timesheet.EditDayRequest) (timesheet.EditDay, error) {
	date, err := timecalc.ParseDateKey(req.Date, s.cfg.Location)
	if err != nil {
		return timesheet.EditDay{}, timesheet.ErrInvalidWeek
	}

	startMin, _ := validator.ParseClock(req.WorkStart)
	at := func(clock string) time.Time {
		m, _ := validator.ParseClock(clock)
		t := time.Date(date.Year(), date.Month(), date.Day(), m/60, m%60, 0, 0, s.cfg.Location)
		if m < startMin {
			t = timecalc.AddDays(t, 1)
		}
		return t
	}

	day := timesheet.EditDay{
		Username:   req.TargetUsername,
		Date:       date,
		WorkStart:  at(req.WorkStart),
		BreakStart: at(req.BreakStart),
		BreakEnd:   at(req.BreakEnd),
		WorkEnd:    at(req.WorkEnd),
	}

	var errs validator.ValidationErrors
	if day.BreakStart.Before(day.WorkStart) || day.BreakEnd.Before(day.BreakStart) {
		errs = append(errs, validator.ValidationError{
			Field:   "break_end",
			Message: "break_end must not be before break_start",
		})
	}
	if day.WorkEnd.Before(day.BreakEnd) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_end",
			Message: "work_end must not be before break_end",
		})
	}
	if len(errs) > 0 {
		return timesheet.EditDay{}, errs
	}
	return day, nil
}

// UpdateSchedule implements timesheet.TimesheetService.
func (s *timesheetServiceImpl) UpdateSchedule(ctx context.Context, req timesheet.UpdateScheduleRequest) (timesheet.ScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.ScheduleResponse{}, err
	}

	cfg := req.ScheduleConfig()
	if err := s.users.UpdateSchedule(ctx, req.TargetUsername, cfg); err != nil {
		if errors.Is(err, timesheet.ErrUserNotFound) {
			return timesheet.ScheduleResponse{}, err
		}
		return timesheet.ScheduleResponse{}, fmt.Errorf("failed to update schedule: %w", err)
	}
	s.snapshots.Invalidate(sourceUsers, allWeeks)

	return timesheet.ScheduleResponse{
		Username:       req.TargetUsername,
		IsHourly:       cfg.IsHourly,
		IsPercentage:   cfg.IsPercentage,
		ScheduleCycle:  cfg.ScheduleCycle,
		WeeklySchedule: cfg.WeeklySchedule,
	}, nil
}

// weekSources is what one dashboard is computed from.
type weekSources struct {
	users     []timesheet.User
	punches   []timesheet.PunchEvent
	vacations []request.VacationRequest
	stale     []string
}

// fetchWeek loads users, punches and approved vacations concurrently. Each
// source that fails falls back to its last snapshot and is reported stale.
// Without a snapshot, failing users or punches fail the call while failing
// vacations only drop the vacation credit.
func (s *timesheetServiceImpl) fetchWeek(ctx context.Context, monday time.Time) (weekSources, error) {
	week := timecalc.DateKey(monday)
	sunday := timecalc.AddDays(monday, 6)

	var (
		wg                                sync.WaitGroup
		users                             []timesheet.User
		punches                           []timesheet.PunchEvent
		vacations                         []request.VacationRequest
		usersErr, punchesErr, vacationErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		users, usersErr = s.users.ListUsers(ctx)
	}()
	go func() {
		defer wg.Done()
		// one extra day each side keeps shifts crossing the week boundary whole
		punches, punchesErr = s.punches.ListPunches(ctx, timecalc.AddDays(monday, -1), timecalc.AddDays(monday, 8))
	}()
	go func() {
		defer wg.Done()
		vacations, vacationErr = s.vacations.ListVacations(ctx, request.ListFilter{
			Status: request.StatusApproved,
			From:   week,
			To:     timecalc.DateKey(sunday),
		})
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return weekSources{}, err
	}

	var src weekSources
	var ok bool
	now := s.now()

	if src.users, ok = settle(s, sourceUsers, allWeeks, users, usersErr, now, &src.stale); !ok {
		return weekSources{}, fmt.Errorf("%w: users: %v", timesheet.ErrSourceUnavailable, usersErr)
	}
	if src.punches, ok = settle(s, sourcePunches, week, punches, punchesErr, now, &src.stale); !ok {
		return weekSources{}, fmt.Errorf("%w: punches: %v", timesheet.ErrSourceUnavailable, punchesErr)
	}
	src.vacations, _ = settle(s, sourceVacations, week, vacations, vacationErr, now, &src.stale)

	return src, nil
}

// settle stores a fresh value or falls back to the stored one after a failure.
func settle[T any](s *timesheetServiceImpl, source, week string, value T, err error, now time.Time, stale *[]string) (T, bool) {
	if err == nil {
		s.snapshots.Put(source, week, value, now)
		return value, true
	}

	slog.Warn("source fetch failed", "source", source, "week", week, "error", err)
	*stale = append(*stale, source)
	return loadSnapshot[T](s.snapshots, source, week)
}

func (s *timesheetServiceImpl) buildDashboard(ctx context.Context, req timesheet.WeeklyReportRequest) (timesheet.WeeklyDashboard, error) {
	anchor, err := timecalc.ParseDateKey(req.Week, s.cfg.Location)
	if err != nil {
		return timesheet.WeeklyDashboard{}, timesheet.ErrInvalidWeek
	}
	monday := timecalc.MondayOf(anchor)
	days := timecalc.WeekDays(monday)

	src, err := s.fetchWeek(ctx, monday)
	if err != nil {
		return timesheet.WeeklyDashboard{}, err
	}

	lang := req.Lang
	if lang == "" {
		lang = i18n.English
	}

	groups := make(map[string][]timecalc.Punch)
	for _, g := range timesheet.GroupPunches(src.punches, s.cfg.Location) {
		groups[g.Username+"|"+g.Date] = g.Punches
	}
	vacationsByUser := make(map[string][]request.VacationRequest)
	for _, v := range src.vacations {
		if v.Status() == request.StatusApproved {
			vacationsByUser[v.Username] = append(vacationsByUser[v.Username], v)
		}
	}

	users := append([]timesheet.User(nil), src.users...)
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })

	dashboard := timesheet.WeeklyDashboard{
		WeekStart:    timecalc.DateKey(days[0]),
		WeekEnd:      timecalc.DateKey(days[6]),
		Users:        []timesheet.UserWeekReport{},
		StaleSources: src.stale,
		GeneratedAt:  s.now(),
	}
	if dashboard.StaleSources == nil {
		dashboard.StaleSources = []string{}
	}

	for _, u := range users {
		if req.Username != "" && u.Username != req.Username {
			continue
		}
		dashboard.Users = append(dashboard.Users, s.userWeek(u, days, groups, vacationsByUser[u.Username], lang))
	}

	if req.Username != "" && len(dashboard.Users) == 0 {
		return timesheet.WeeklyDashboard{}, timesheet.ErrUserNotFound
	}
	return dashboard, nil
}

func (s *timesheetServiceImpl) userWeek(u timesheet.User, days [7]time.Time, groups map[string][]timecalc.Punch, vacations []request.VacationRequest, lang i18n.Lang) timesheet.UserWeekReport {
	report := timesheet.UserWeekReport{
		Username:    u.Username,
		DisplayName: u.Name(),
		IsHourly:    u.Schedule.IsHourly,
		Days:        make([]timesheet.DayReportRow, 0, len(days)),
	}

	results := make([]timecalc.DayResult, 0, len(days))
	for _, day := range days {
		key := timecalc.DateKey(day)
		input := timecalc.DayInput{
			Date:          day,
			Punches:       groups[u.Username+"|"+key],
			Schedule:      u.Schedule,
			FallbackHours: s.cfg.FallbackHours,
			Policy:        s.cfg.Policy,
			Location:      s.cfg.Location,
		}

		var vacationLabel string
		for _, v := range vacations {
			if v.Covers(key) {
				input.Vacation = &timecalc.Vacation{HalfDay: v.HalfDay}
				vacationLabel = "full_day"
				if v.HalfDay {
					vacationLabel = "half_day"
				}
				break
			}
		}

		res, work := timecalc.ComputeDay(input)
		results = append(results, res)

		report.Days = append(report.Days, timesheet.DayReportRow{
			Date:            key,
			Label:           i18n.WeekdayShort(lang, timecalc.WeekdayOf(day)) + " " + day.Format("02.01."),
			WorkStart:       timecalc.FormatClock(work.WorkStart, s.cfg.Location),
			BreakStart:      timecalc.FormatClock(work.BreakStart, s.cfg.Location),
			BreakEnd:        timecalc.FormatClock(work.BreakEnd, s.cfg.Location),
			WorkEnd:         timecalc.FormatClock(work.WorkEnd, s.cfg.Location),
			WorkedMinutes:   res.WorkedMinutes,
			ExpectedMinutes: res.ExpectedMinutes,
			DiffMinutes:     res.DiffMinutes,
			Diff:            timecalc.FormatDiff(res.DiffMinutes),
			Status:          string(res.Status),
			StatusLabel:     i18n.Status(lang, res.Status),
			Vacation:        vacationLabel,
		})

		if res.Status == timecalc.StatusComplete {
			report.TotalWorkedMinutes += res.WorkedMinutes
			report.TotalExpectedMinutes += res.ExpectedMinutes
		}
	}

	report.TotalDiffMinutes = timecalc.WeekTotal(results)
	report.TotalDiff = timecalc.FormatDiff(report.TotalDiffMinutes)
	return report
}
