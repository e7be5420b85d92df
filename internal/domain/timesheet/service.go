package timesheet

import (
	"context"
)

// TimesheetService computes weekly reports from punches and schedules
type TimesheetService interface {
	// GetWeeklyDashboard builds the report of every user for one week (admin)
	GetWeeklyDashboard(ctx context.Context, req WeeklyReportRequest) (WeeklyDashboard, error)

	// GetUserWeek builds the report of a single user for one week
	GetUserWeek(ctx context.Context, req WeeklyReportRequest) (UserWeekReport, error)

	// EditDay replaces one user-day with a full set of four stamps (admin)
	EditDay(ctx context.Context, req EditDayRequest) error

	// UpdateSchedule replaces a user's working time contract (admin)
	UpdateSchedule(ctx context.Context, req UpdateScheduleRequest) (ScheduleResponse, error)

	// ExportWeek renders the weekly dashboard as an XLSX workbook (admin)
	ExportWeek(ctx context.Context, req WeeklyReportRequest) (ExportFile, error)
}
