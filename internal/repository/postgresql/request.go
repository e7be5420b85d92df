package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/timesheet-go/internal/domain/request"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type requestRepositoryImpl struct {
	db *database.DB
}

func NewVacationRepository(db *database.DB) request.VacationRepository {
	return &requestRepositoryImpl{db: db}
}

func NewCorrectionRepository(db *database.DB) request.CorrectionRepository {
	return &requestRepositoryImpl{db: db}
}

// filterClause renders f as a WHERE clause over the given date columns.
func filterClause(f request.ListFilter, startCol, endCol string) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argIdx := 1

	switch f.Status {
	case request.StatusPending:
		conditions = append(conditions, "NOT approved AND NOT denied")
	case request.StatusApproved:
		conditions = append(conditions, "approved")
	case request.StatusDenied:
		conditions = append(conditions, "denied")
	}
	if f.Username != "" {
		conditions = append(conditions, fmt.Sprintf("username = $%d", argIdx))
		args = append(args, f.Username)
		argIdx++
	}
	if f.From != "" {
		conditions = append(conditions, fmt.Sprintf("%s >= $%d::date", endCol, argIdx))
		args = append(args, f.From)
		argIdx++
	}
	if f.To != "" {
		conditions = append(conditions, fmt.Sprintf("%s <= $%d::date", startCol, argIdx))
		args = append(args, f.To)
		argIdx++
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

const vacationColumns = `
	id::text, username, to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'),
	half_day, reason, approved, denied
`

func scanVacation(row pgx.Row) (request.VacationRequest, error) {
	var v request.VacationRequest
	err := row.Scan(
		&v.ID,
		&v.Username,
		&v.StartDate,
		&v.EndDate,
		&v.HalfDay,
		&v.Reason,
		&v.Approved,
		&v.Denied,
	)
	return v, err
}

// ListVacations implements request.VacationRepository.
func (r *requestRepositoryImpl) ListVacations(ctx context.Context, filter request.ListFilter) ([]request.VacationRequest, error) {
	q := GetQuerier(ctx, r.db)

	where, args := filterClause(filter, "start_date", "end_date")
	query := "SELECT " + vacationColumns + " FROM vacation_requests " + where + " ORDER BY start_date, username"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []request.VacationRequest
	for rows.Next() {
		v, err := scanVacation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetVacation implements request.VacationRepository.
func (r *requestRepositoryImpl) GetVacation(ctx context.Context, id string) (request.VacationRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + vacationColumns + " FROM vacation_requests WHERE id::text = $1"
	v, err := scanVacation(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return request.VacationRequest{}, request.ErrVacationNotFound
		}
		return request.VacationRequest{}, err
	}
	return v, nil
}

// SaveVacationDecision implements request.VacationRepository. Rows that were
// decided concurrently are left alone and reported as already processed.
func (r *requestRepositoryImpl) SaveVacationDecision(ctx context.Context, v request.VacationRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE vacation_requests
		SET approved = $2, denied = $3, updated_at = now()
		WHERE id::text = $1 AND NOT approved AND NOT denied
	`
	commandTag, err := q.Exec(ctx, query, v.ID, v.Approved, v.Denied)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return request.ErrRequestAlreadyProcessed
	}
	return nil
}

const correctionColumns = `
	id::text, username, to_char(date, 'YYYY-MM-DD'),
	work_start, break_start, break_end, work_end, reason, approved, denied
`

func scanCorrection(row pgx.Row) (request.CorrectionRequest, error) {
	var c request.CorrectionRequest
	err := row.Scan(
		&c.ID,
		&c.Username,
		&c.Date,
		&c.WorkStart,
		&c.BreakStart,
		&c.BreakEnd,
		&c.WorkEnd,
		&c.Reason,
		&c.Approved,
		&c.Denied,
	)
	return c, err
}

// ListCorrections implements request.CorrectionRepository.
func (r *requestRepositoryImpl) ListCorrections(ctx context.Context, filter request.ListFilter) ([]request.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	where, args := filterClause(filter, "date", "date")
	query := "SELECT " + correctionColumns + " FROM correction_requests " + where + " ORDER BY date, username"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []request.CorrectionRequest
	for rows.Next() {
		c, err := scanCorrection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCorrection implements request.CorrectionRepository.
func (r *requestRepositoryImpl) GetCorrection(ctx context.Context, id string) (request.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := "SELECT " + correctionColumns + " FROM correction_requests WHERE id::text = $1"
	c, err := scanCorrection(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return request.CorrectionRequest{}, request.ErrCorrectionNotFound
		}
		return request.CorrectionRequest{}, err
	}
	return c, nil
}

// SaveCorrectionDecision implements request.CorrectionRepository.
func (r *requestRepositoryImpl) SaveCorrectionDecision(ctx context.Context, c request.CorrectionRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE correction_requests
		SET approved = $2, denied = $3, updated_at = now()
		WHERE id::text = $1 AND NOT approved AND NOT denied
	`
	commandTag, err := q.Exec(ctx, query, c.ID, c.Approved, c.Denied)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return request.ErrRequestAlreadyProcessed
	}
	return nil
}
