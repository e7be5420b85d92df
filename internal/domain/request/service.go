package request

import "context"

// RequestService reviews vacation and correction requests (admin)
type RequestService interface {
	ListVacations(ctx context.Context, filter ListFilter) (ListVacationResponse, error)
	GetVacation(ctx context.Context, id string) (VacationResponse, error)
	ApproveVacation(ctx context.Context, id string) (VacationResponse, error)
	DenyVacation(ctx context.Context, id string) (VacationResponse, error)

	ListCorrections(ctx context.Context, filter ListFilter) (ListCorrectionResponse, error)
	GetCorrection(ctx context.Context, id string) (CorrectionResponse, error)
	ApproveCorrection(ctx context.Context, id string) (CorrectionResponse, error)
	DenyCorrection(ctx context.Context, id string) (CorrectionResponse, error)
}
