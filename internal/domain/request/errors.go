package request

import "errors"

var (
	ErrVacationNotFound        = errors.New("vacation request not found")
	ErrCorrectionNotFound      = errors.New("correction request not found")
	ErrRequestAlreadyProcessed = errors.New("request already processed")
)
