package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/timesheet-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/database"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/timecalc"
)

type punchRepositoryImpl struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) timesheet.PunchRepository {
	return &punchRepositoryImpl{db: db}
}

// ListPunches implements timesheet.PunchRepository.
func (r *punchRepositoryImpl) ListPunches(ctx context.Context, from, to time.Time) ([]timesheet.PunchEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT username, start_time, end_time, break_start, break_end, punch_order, color
		FROM punches
		WHERE start_time >= $1 AND start_time < $2
		ORDER BY username, start_time, punch_order
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var punches []timesheet.PunchEvent
	for rows.Next() {
		var p timesheet.PunchEvent
		var order int16
		err := rows.Scan(
			&p.Username,
			&p.StartTime,
			&p.EndTime,
			&p.BreakStart,
			&p.BreakEnd,
			&order,
			&p.Color,
		)
		if err != nil {
			return nil, err
		}
		p.PunchOrder = timecalc.PunchOrder(order)
		punches = append(punches, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return punches, nil
}

// ReplaceDay implements timesheet.PunchRepository. Callers run it inside
// WithTransaction so the delete and the inserts land together.
func (r *punchRepositoryImpl) ReplaceDay(ctx context.Context, day timesheet.EditDay) error {
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, day.Username).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return timesheet.ErrUserNotFound
	}

	workDate := timecalc.DateKey(day.Date)
	if _, err := q.Exec(ctx, `DELETE FROM punches WHERE username = $1 AND work_date = $2`, day.Username, workDate); err != nil {
		return err
	}

	query := `
		INSERT INTO punches (username, work_date, start_time, end_time, break_start, break_end, punch_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, p := range day.Punches() {
		_, err := q.Exec(ctx, query,
			p.Username,
			workDate,
			p.StartTime,
			p.EndTime,
			p.BreakStart,
			p.BreakEnd,
			int16(p.PunchOrder),
		)
		if err != nil {
			return err
		}
	}

	return nil
}
