// Package upstream adapts the REST backend client to the domain repositories.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timesheet-go/internal/domain/request"
	"github.com/cmlabs-hris/timesheet-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/backend"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/timecalc"
)

// Repository serves users, punches and requests from the upstream backend.
type Repository struct {
	client *backend.Client
}

func NewRepository(client *backend.Client) *Repository {
	return &Repository{client: client}
}

var (
	_ timesheet.UserRepository     = (*Repository)(nil)
	_ timesheet.PunchRepository    = (*Repository)(nil)
	_ request.VacationRepository   = (*Repository)(nil)
	_ request.CorrectionRepository = (*Repository)(nil)
)

// translate maps transport failures onto domain errors.
func translate(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, backend.ErrNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, backend.ErrUnavailable):
		return fmt.Errorf("%w: %v", timesheet.ErrSourceUnavailable, err)
	}
	return err
}

func (r *Repository) ListUsers(ctx context.Context) ([]timesheet.User, error) {
	records, err := r.client.ListUsers(ctx)
	if err != nil {
		return nil, translate(err, nil)
	}

	users := make([]timesheet.User, 0, len(records))
	for _, rec := range records {
		users = append(users, timesheet.User{
			Username:    rec.Username,
			DisplayName: rec.DisplayName,
			IsAdmin:     rec.IsAdmin,
			Schedule:    rec.ScheduleConfig,
		})
	}
	return users, nil
}

func (r *Repository) UpdateSchedule(ctx context.Context, username string, cfg timecalc.ScheduleConfig) error {
	return translate(r.client.UpdateSchedule(ctx, username, cfg), timesheet.ErrUserNotFound)
}

func (r *Repository) ListPunches(ctx context.Context, from, to time.Time) ([]timesheet.PunchEvent, error) {
	records, err := r.client.ListTimeTracking(ctx, from, to)
	if err != nil {
		return nil, translate(err, nil)
	}

	punches := make([]timesheet.PunchEvent, 0, len(records))
	for _, rec := range records {
		p := timesheet.PunchEvent{
			Username:   rec.Username,
			StartTime:  rec.StartTime,
			EndTime:    rec.EndTime,
			BreakStart: rec.BreakStart,
			BreakEnd:   rec.BreakEnd,
			PunchOrder: timecalc.PunchOrder(rec.PunchOrder),
		}
		if rec.Color != "" {
			color := rec.Color
			p.Color = &color
		}
		punches = append(punches, p)
	}
	return punches, nil
}

func (r *Repository) ReplaceDay(ctx context.Context, day timesheet.EditDay) error {
	payload := backend.EditDayPayload{
		TargetUsername: day.Username,
		Date:           timecalc.DateKey(day.Date),
		WorkStart:      day.WorkStart.Format("15:04"),
		BreakStart:     day.BreakStart.Format("15:04"),
		BreakEnd:       day.BreakEnd.Format("15:04"),
		WorkEnd:        day.WorkEnd.Format("15:04"),
	}
	return translate(r.client.EditDay(ctx, payload), timesheet.ErrUserNotFound)
}

func vacationFromRecord(rec backend.VacationRecord) request.VacationRequest {
	return request.VacationRequest{
		ID:        rec.ID,
		Username:  rec.Username,
		StartDate: rec.StartDate,
		EndDate:   rec.EndDate,
		HalfDay:   rec.HalfDay,
		Reason:    rec.Reason,
		Decision:  request.Decision{Approved: rec.Approved, Denied: rec.Denied},
	}
}

func (r *Repository) ListVacations(ctx context.Context, filter request.ListFilter) ([]request.VacationRequest, error) {
	records, err := r.client.ListVacationRequests(ctx)
	if err != nil {
		return nil, translate(err, nil)
	}

	var out []request.VacationRequest
	for _, rec := range records {
		if v := vacationFromRecord(rec); filter.MatchVacation(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *Repository) GetVacation(ctx context.Context, id string) (request.VacationRequest, error) {
	rec, err := r.client.GetVacationRequest(ctx, id)
	if err != nil {
		return request.VacationRequest{}, translate(err, request.ErrVacationNotFound)
	}
	return vacationFromRecord(*rec), nil
}

func (r *Repository) SaveVacationDecision(ctx context.Context, v request.VacationRequest) error {
	return translate(r.client.DecideVacationRequest(ctx, v.ID, v.Approved), request.ErrVacationNotFound)
}

func correctionFromRecord(rec backend.CorrectionRecord) request.CorrectionRequest {
	return request.CorrectionRequest{
		ID:         rec.ID,
		Username:   rec.Username,
		Date:       rec.Date,
		WorkStart:  rec.WorkStart,
		BreakStart: rec.BreakStart,
		BreakEnd:   rec.BreakEnd,
		WorkEnd:    rec.WorkEnd,
		Reason:     rec.Reason,
		Decision:   request.Decision{Approved: rec.Approved, Denied: rec.Denied},
	}
}

func (r *Repository) ListCorrections(ctx context.Context, filter request.ListFilter) ([]request.CorrectionRequest, error) {
	records, err := r.client.ListCorrectionRequests(ctx)
	if err != nil {
		return nil, translate(err, nil)
	}

	var out []request.CorrectionRequest
	for _, rec := range records {
		if c := correctionFromRecord(rec); filter.MatchCorrection(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *Repository) GetCorrection(ctx context.Context, id string) (request.CorrectionRequest, error) {
	rec, err := r.client.GetCorrectionRequest(ctx, id)
	if err != nil {
		return request.CorrectionRequest{}, translate(err, request.ErrCorrectionNotFound)
	}
	return correctionFromRecord(*rec), nil
}

func (r *Repository) SaveCorrectionDecision(ctx context.Context, c request.CorrectionRequest) error {
	return translate(r.client.DecideCorrectionRequest(ctx, c.ID, c.Approved), request.ErrCorrectionNotFound)
}
