package backend

import (
	"time"

	"github.com/cmlabs-hris/timesheet-go/internal/pkg/timecalc"
)

// LoginResult is the upstream answer to a successful login.
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// PunchRecord is one entry of the time-tracking listing.
type PunchRecord struct {
	Username   string     `json:"username"`
	StartTime  time.Time  `json:"startTime"`
	EndTime    *time.Time `json:"endTime,omitempty"`
	BreakStart *time.Time `json:"breakStart,omitempty"`
	BreakEnd   *time.Time `json:"breakEnd,omitempty"`
	PunchOrder int        `json:"punchOrder"`
	Color      string     `json:"color,omitempty"`
}

// UserRecord is one entry of the user listing.
type UserRecord struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
	IsAdmin     bool   `json:"isAdmin"`
	timecalc.ScheduleConfig
}

// EditDayPayload replaces the four stamps of one user-day.
type EditDayPayload struct {
	TargetUsername string `json:"targetUsername"`
	Date           string `json:"date"`
	WorkStart      string `json:"workStart"`
	BreakStart     string `json:"breakStart"`
	BreakEnd       string `json:"breakEnd"`
	WorkEnd        string `json:"workEnd"`
}

type VacationRecord struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	HalfDay   bool   `json:"halfDay"`
	Reason    string `json:"reason,omitempty"`
	Approved  bool   `json:"approved"`
	Denied    bool   `json:"denied"`
}

type CorrectionRecord struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Date       string `json:"date"`
	WorkStart  string `json:"workStart,omitempty"`
	BreakStart string `json:"breakStart,omitempty"`
	BreakEnd   string `json:"breakEnd,omitempty"`
	WorkEnd    string `json:"workEnd,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Approved   bool   `json:"approved"`
	Denied     bool   `json:"denied"`
}
