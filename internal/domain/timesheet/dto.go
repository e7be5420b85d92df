package timesheet

import (
	"time"

	"github.com/cmlabs-hris/timesheet-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/validator"
)

type WeeklyReportRequest struct {
	Week     string // any YYYY-MM-DD inside the week
	Username string
	Lang     i18n.Lang
}

func (r *WeeklyReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Week) {
		errs = append(errs, validator.ValidationError{
			Field:   "week",
			Message: "week is required",
		})
	} else if _, ok := validator.IsValidDate(r.Week); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "week",
			Message: "week must be a date in YYYY-MM-DD format",
		})
	}
	if r.Username != "" && !validator.IsValidUsername(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username may only contain letters, numbers, dots, underscores, hyphens and @",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// EditDayRequest replaces all four stamps of one user-day. Times are HH:MM in
// the service time zone; a value earlier than work_start is read as the next day.
type EditDayRequest struct {
	TargetUsername string `json:"-"`
	Date           string `json:"-"`
	WorkStart      string `json:"work_start"`
	BreakStart     string `json:"break_start"`
	BreakEnd       string `json:"break_end"`
	WorkEnd        string `json:"work_end"`
}

func (r *EditDayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.TargetUsername) {
		errs = append(errs, validator.ValidationError{
			Field:   "target_username",
			Message: "target_username is required",
		})
	} else if !validator.IsValidUsername(r.TargetUsername) {
		errs = append(errs, validator.ValidationError{
			Field:   "target_username",
			Message: "target_username may only contain letters, numbers, dots, underscores, hyphens and @",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	clocks := []struct {
		field string
		value string
	}{
		{"work_start", r.WorkStart},
		{"break_start", r.BreakStart},
		{"break_end", r.BreakEnd},
		{"work_end", r.WorkEnd},
	}
	for _, c := range clocks {
		if validator.IsEmpty(c.value) {
			errs = append(errs, validator.ValidationError{
				Field:   c.field,
				Message: c.field + " is required",
			})
		} else if !validator.IsValidClock(c.value) {
			errs = append(errs, validator.ValidationError{
				Field:   c.field,
				Message: c.field + " must be in HH:MM format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// MaxScheduleCycle bounds the rotation length an admin may configure.
const MaxScheduleCycle = 52

// UpdateScheduleRequest replaces a user's working time contract. The weekly
// table is truncated or padded with default weeks to schedule_cycle entries.
type UpdateScheduleRequest struct {
	TargetUsername string                  `json:"-"`
	IsHourly       bool                    `json:"is_hourly"`
	IsPercentage   bool                    `json:"is_percentage"`
	ScheduleCycle  int                     `json:"schedule_cycle"`
	WeeklySchedule []timecalc.WeekTemplate `json:"weekly_schedule"`
}

func (r *UpdateScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUsername(r.TargetUsername) {
		errs = append(errs, validator.ValidationError{
			Field:   "target_username",
			Message: "target_username may only contain letters, numbers, dots, underscores, hyphens and @",
		})
	}
	if r.IsHourly && r.IsPercentage {
		errs = append(errs, validator.ValidationError{
			Field:   "is_percentage",
			Message: "is_hourly and is_percentage are mutually exclusive",
		})
	}
	if r.ScheduleCycle < 1 || r.ScheduleCycle > MaxScheduleCycle {
		errs = append(errs, validator.ValidationError{
			Field:   "schedule_cycle",
			Message: "schedule_cycle must be between 1 and " + validator.Itoa(MaxScheduleCycle),
		})
	}
	for i, week := range r.WeeklySchedule {
		for day, hours := range week {
			if hours < 0 || hours > 24 {
				errs = append(errs, validator.ValidationError{
					Field:   "weekly_schedule[" + validator.Itoa(i) + "]." + day.String(),
					Message: "hours must be between 0 and 24",
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ScheduleConfig returns the contract with the weekly table fitted to the cycle.
func (r *UpdateScheduleRequest) ScheduleConfig() timecalc.ScheduleConfig {
	return timecalc.ScheduleConfig{
		IsHourly:       r.IsHourly,
		IsPercentage:   r.IsPercentage,
		ScheduleCycle:  r.ScheduleCycle,
		WeeklySchedule: timecalc.ResizeCycle(r.WeeklySchedule, r.ScheduleCycle),
	}
}

type ScheduleResponse struct {
	Username       string                  `json:"username"`
	IsHourly       bool                    `json:"is_hourly"`
	IsPercentage   bool                    `json:"is_percentage"`
	ScheduleCycle  int                     `json:"schedule_cycle"`
	WeeklySchedule []timecalc.WeekTemplate `json:"weekly_schedule"`
}

// DayReportRow is one printable day of a user's week.
type DayReportRow struct {
	Date            string `json:"date"`
	Label           string `json:"label"`
	WorkStart       string `json:"work_start"`
	BreakStart      string `json:"break_start"`
	BreakEnd        string `json:"break_end"`
	WorkEnd         string `json:"work_end"`
	WorkedMinutes   int    `json:"worked_minutes"`
	ExpectedMinutes int    `json:"expected_minutes"`
	DiffMinutes     int    `json:"diff_minutes"`
	Diff            string `json:"diff"`
	Status          string `json:"status"`
	StatusLabel     string `json:"status_label"`
	Vacation        string `json:"vacation,omitempty"`
}

type UserWeekReport struct {
	Username             string         `json:"username"`
	DisplayName          string         `json:"display_name"`
	IsHourly             bool           `json:"is_hourly"`
	Days                 []DayReportRow `json:"days"`
	TotalWorkedMinutes   int            `json:"total_worked_minutes"`
	TotalExpectedMinutes int            `json:"total_expected_minutes"`
	TotalDiffMinutes     int            `json:"total_diff_minutes"`
	TotalDiff            string         `json:"total_diff"`
}

type WeeklyDashboard struct {
	WeekStart    string           `json:"week_start"`
	WeekEnd      string           `json:"week_end"`
	Users        []UserWeekReport `json:"users"`
	StaleSources []string         `json:"stale_sources"`
	GeneratedAt  time.Time        `json:"generated_at"`
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
