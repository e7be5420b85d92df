package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/timesheet-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/database"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/timecalc"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) timesheet.UserRepository {
	return &userRepositoryImpl{db: db}
}

// ListUsers implements timesheet.UserRepository.
func (r *userRepositoryImpl) ListUsers(ctx context.Context) ([]timesheet.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT username, display_name, is_admin, is_hourly, is_percentage, schedule_cycle, weekly_schedule
		FROM users
		ORDER BY username
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []timesheet.User
	for rows.Next() {
		var u timesheet.User
		var weekly []byte
		err := rows.Scan(
			&u.Username,
			&u.DisplayName,
			&u.IsAdmin,
			&u.Schedule.IsHourly,
			&u.Schedule.IsPercentage,
			&u.Schedule.ScheduleCycle,
			&weekly,
		)
		if err != nil {
			return nil, err
		}
		if len(weekly) > 0 {
			if err := json.Unmarshal(weekly, &u.Schedule.WeeklySchedule); err != nil {
				return nil, fmt.Errorf("decode weekly_schedule of %s: %w", u.Username, err)
			}
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// UpdateSchedule implements timesheet.UserRepository.
func (r *userRepositoryImpl) UpdateSchedule(ctx context.Context, username string, cfg timecalc.ScheduleConfig) error {
	q := GetQuerier(ctx, r.db)

	weekly, err := json.Marshal(cfg.WeeklySchedule)
	if err != nil {
		return err
	}

	query := `
		UPDATE users
		SET is_hourly = $2, is_percentage = $3, schedule_cycle = $4, weekly_schedule = $5
		WHERE username = $1
	`
	commandTag, err := q.Exec(ctx, query, username, cfg.IsHourly, cfg.IsPercentage, cfg.ScheduleCycle, weekly)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return timesheet.ErrUserNotFound
	}
	return nil
}
