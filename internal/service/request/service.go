package request

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/timesheet-go/internal/domain/request"
)

type requestServiceImpl struct {
	vacations   request.VacationRepository
	corrections request.CorrectionRepository
}

func NewRequestService(vacations request.VacationRepository, corrections request.CorrectionRepository) request.RequestService {
	return &requestServiceImpl{
		vacations:   vacations,
		corrections: corrections,
	}
}

// ListVacations implements request.RequestService.
func (s *requestServiceImpl) ListVacations(ctx context.Context, filter request.ListFilter) (request.ListVacationResponse, error) {
	if err := filter.Validate(); err != nil {
		return request.ListVacationResponse{}, err
	}

	vacations, err := s.vacations.ListVacations(ctx, filter)
	if err != nil {
		return request.ListVacationResponse{}, fmt.Errorf("failed to list vacation requests: %w", err)
	}

	res := request.ListVacationResponse{Vacations: make([]request.VacationResponse, 0, len(vacations))}
	for _, v := range vacations {
		res.Vacations = append(res.Vacations, request.NewVacationResponse(v))
	}
	res.Total = len(res.Vacations)
	return res, nil
}

// GetVacation implements request.RequestService.
func (s *requestServiceImpl) GetVacation(ctx context.Context, id string) (request.VacationResponse, error) {
	v, err := s.vacations.GetVacation(ctx, id)
	if err != nil {
		return request.VacationResponse{}, err
	}
	return request.NewVacationResponse(v), nil
}

// ApproveVacation implements request.RequestService.
func (s *requestServiceImpl) ApproveVacation(ctx context.Context, id string) (request.VacationResponse, error) {
	return s.decideVacation(ctx, id, true)
}

// DenyVacation implements request.RequestService.
func (s *requestServiceImpl) DenyVacation(ctx context.Context, id string) (request.VacationResponse, error) {
	return s.decideVacation(ctx, id, false)
}

func (s *requestServiceImpl) decideVacation(ctx context.Context, id string, approve bool) (request.VacationResponse, error) {
	v, err := s.vacations.GetVacation(ctx, id)
	if err != nil {
		return request.VacationResponse{}, err
	}

	if approve {
		err = v.Approve()
	} else {
		err = v.Deny()
	}
	if err != nil {
		return request.VacationResponse{}, err
	}

	if err := s.vacations.SaveVacationDecision(ctx, v); err != nil {
		return request.VacationResponse{}, fmt.Errorf("failed to save vacation decision: %w", err)
	}

	slog.Info("vacation request decided", "id", v.ID, "username", v.Username, "status", v.Status())
	return request.NewVacationResponse(v), nil
}

// ListCorrections implements request.RequestService.
func (s *requestServiceImpl) ListCorrections(ctx context.Context, filter request.ListFilter) (request.ListCorrectionResponse, error) {
	if err := filter.Validate(); err != nil {
		return request.ListCorrectionResponse{}, err
	}

	corrections, err := s.corrections.ListCorrections(ctx, filter)
	if err != nil {
		return request.ListCorrectionResponse{}, fmt.Errorf("failed to list correction requests: %w", err)
	}

	res := request.ListCorrectionResponse{Corrections: make([]request.CorrectionResponse, 0, len(corrections))}
	for _, c := range corrections {
		res.Corrections = append(res.Corrections, request.NewCorrectionResponse(c))
	}
	res.Total = len(res.Corrections)
	return res, nil
}

// GetCorrection implements request.RequestService.
func (s *requestServiceImpl) GetCorrection(ctx context.Context, id string) (request.CorrectionResponse, error) {
	c, err := s.corrections.GetCorrection(ctx, id)
	if err != nil {
		return request.CorrectionResponse{}, err
	}
	return request.NewCorrectionResponse(c), nil
}

// ApproveCorrection implements request.RequestService.
func (s *requestServiceImpl) ApproveCorrection(ctx context.Context, id string) (request.CorrectionResponse, error) {
	return s.decideCorrection(ctx, id, true)
}

// DenyCorrection implements request.RequestService.
func (s *requestServiceImpl) DenyCorrection(ctx context.Context, id string) (request.CorrectionResponse, error) {
	return s.decideCorrection(ctx, id, false)
}

func (s *requestServiceImpl) decideCorrection(ctx context.Context, id string, approve bool) (request.CorrectionResponse, error) {
	c, err := s.corrections.GetCorrection(ctx, id)
	if err != nil {
		return request.CorrectionResponse{}, err
	}

	if approve {
		err = c.Approve()
	} else {
		err = c.Deny()
	}
	if err != nil {
		return request.CorrectionResponse{}, err
	}

	if err := s.corrections.SaveCorrectionDecision(ctx, c); err != nil {
		return request.CorrectionResponse{}, fmt.Errorf("failed to save correction decision: %w", err)
	}

	slog.Info("correction request decided", "id", c.ID, "username", c.Username, "status", c.Status())
	return request.NewCorrectionResponse(c), nil
}
