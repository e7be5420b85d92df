package timesheet

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timesheet-go/internal/pkg/timecalc"
)

// UserRepository lists the users a dashboard covers.
type UserRepository interface {
	// ListUsers returns every user with their schedule configuration
	ListUsers(ctx context.Context) ([]User, error)

	// UpdateSchedule replaces the schedule of one user
	UpdateSchedule(ctx context.Context, username string, cfg timecalc.ScheduleConfig) error
}

// PunchRepository reads and corrects stamps.
type PunchRepository interface {
	// ListPunches returns all stamps with a start time in [from, to)
	ListPunches(ctx context.Context, from, to time.Time) ([]PunchEvent, error)

	// ReplaceDay swaps every stamp of one user-day for the four in day
	ReplaceDay(ctx context.Context, day EditDay) error
}
