package request

import "context"

// VacationRepository defines data access for vacation requests. Requests are
// never deleted; only their decision changes.
type VacationRepository interface {
	ListVacations(ctx context.Context, filter ListFilter) ([]VacationRequest, error)

	// GetVacation returns ErrVacationNotFound for unknown ids
	GetVacation(ctx context.Context, id string) (VacationRequest, error)

	// SaveVacationDecision persists the approved/denied pair of v
	SaveVacationDecision(ctx context.Context, v VacationRequest) error
}

// CorrectionRepository defines data access for correction requests.
type CorrectionRepository interface {
	ListCorrections(ctx context.Context, filter ListFilter) ([]CorrectionRequest, error)

	// GetCorrection returns ErrCorrectionNotFound for unknown ids
	GetCorrection(ctx context.Context, id string) (CorrectionRequest, error)

	// SaveCorrectionDecision persists the approved/denied pair of c
	SaveCorrectionDecision(ctx context.Context, c CorrectionRequest) error
}
