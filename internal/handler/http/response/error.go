package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/timesheet-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-go/internal/domain/request"
	"github.com/cmlabs-hris/timesheet-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token revoked")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, auth.ErrForbidden):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrBackendUnavailable):
		ServiceUnavailable(w, "Authentication backend unavailable")

	// Timesheet domain errors
	case errors.Is(err, timesheet.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, timesheet.ErrInvalidWeek):
		BadRequest(w, "Invalid week", nil)
	case errors.Is(err, timesheet.ErrSourceUnavailable):
		ServiceUnavailable(w, "Timesheet data source unavailable")

	// Request domain errors
	case errors.Is(err, request.ErrVacationNotFound):
		NotFound(w, "Vacation request not found")
	case errors.Is(err, request.ErrCorrectionNotFound):
		NotFound(w, "Correction request not found")
	case errors.Is(err, request.ErrRequestAlreadyProcessed):
		Conflict(w, "Request already processed")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
