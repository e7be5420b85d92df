package timesheet

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidWeek       = errors.New("invalid week")
	ErrSourceUnavailable = errors.New("timesheet data source unavailable")
)
