package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/timesheet-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-go/internal/domain/request"
	"github.com/cmlabs-hris/timesheet-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/timesheet-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserRepository_ListAndUpdate(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	setup.createUser(t, "anna", true, `[{"monday": 6, "tuesday": "7,5"}]`)
	setup.createUser(t, "bob", false, `[]`)

	repo := postgresql.NewUserRepository(setup.DB)
	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "anna", users[0].Username)
	assert.True(t, users[0].IsAdmin)
	require.Len(t, users[0].Schedule.WeeklySchedule, 1)
	assert.Equal(t, 6.0, users[0].Schedule.WeeklySchedule[0][timecalc.Monday])
	assert.Equal(t, 7.5, users[0].Schedule.WeeklySchedule[0][timecalc.Tuesday])

	cfg := timecalc.ScheduleConfig{ScheduleCycle: 2, WeeklySchedule: timecalc.ResizeCycle(nil, 2)}
	require.NoError(t, repo.UpdateSchedule(ctx, "bob", cfg))
	users, err = repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, users[1].Schedule.ScheduleCycle)
	assert.Len(t, users[1].Schedule.WeeklySchedule, 2)

	err = repo.UpdateSchedule(ctx, "nobody", cfg)
	assert.ErrorIs(t, err, timesheet.ErrUserNotFound)
}

func TestPunchRepository_ReplaceDay(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	setup.createUser(t, "anna", false, `[]`)

	repo := postgresql.NewPunchRepository(setup.DB)
	day := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	edit := timesheet.EditDay{
		Username:   "anna",
		Date:       day,
		WorkStart:  day.Add(8 * time.Hour),
		BreakStart: day.Add(12 * time.Hour),
		BreakEnd:   day.Add(12*time.Hour + 30*time.Minute),
		WorkEnd:    day.Add(17 * time.Hour),
	}

	// replacing twice keeps exactly one set of four
	for i := 0; i < 2; i++ {
		err := postgresql.WithTransaction(ctx, setup.DB, func(ctx context.Context) error {
			return repo.ReplaceDay(ctx, edit)
		})
		require.NoError(t, err)
	}

	punches, err := repo.ListPunches(ctx, day, day.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, punches, 4)

	groups := timesheet.GroupPunches(punches, time.UTC)
	require.Len(t, groups, 1)
	work := timecalc.Interpret(groups[0].Punches, false, timecalc.OvernightTruncate, time.UTC)
	assert.Equal(t, 510, work.WorkedMinutes)

	edit.Username = "ghost"
	err = postgresql.WithTransaction(ctx, setup.DB, func(ctx context.Context) error {
		return repo.ReplaceDay(ctx, edit)
	})
	assert.ErrorIs(t, err, timesheet.ErrUserNotFound)
}

func TestPunchRepository_RollbackOnError(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	setup.createUser(t, "anna", false, `[]`)

	repo := postgresql.NewPunchRepository(setup.DB)
	day := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	edit := timesheet.EditDay{Username: "anna", Date: day, WorkStart: day, BreakStart: day, BreakEnd: day, WorkEnd: day}

	boom := errors.New("boom")
	err := postgresql.WithTransaction(ctx, setup.DB, func(ctx context.Context) error {
		if err := repo.ReplaceDay(ctx, edit); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	punches, err := repo.ListPunches(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, punches)
}

func TestRequestRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	setup.createUser(t, "anna", false, `[]`)

	var vacationID, correctionID string
	require.NoError(t, setup.DB.QueryRow(ctx, `
		INSERT INTO vacation_requests (username, start_date, end_date, half_day, reason)
		VALUES ('anna', '2024-01-08', '2024-01-09', TRUE, 'dentist')
		RETURNING id::text
	`).Scan(&vacationID))
	require.NoError(t, setup.DB.QueryRow(ctx, `
		INSERT INTO correction_requests (username, date, work_start, break_start, break_end, work_end)
		VALUES ('anna', '2024-01-10', '08:00', '12:00', '12:30', '17:00')
		RETURNING id::text
	`).Scan(&correctionID))

	vacations := postgresql.NewVacationRepository(setup.DB)
	list, err := vacations.ListVacations(ctx, request.ListFilter{Status: request.StatusPending, From: "2024-01-09", To: "2024-01-14"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2024-01-08", list[0].StartDate)
	assert.True(t, list[0].HalfDay)

	v, err := vacations.GetVacation(ctx, vacationID)
	require.NoError(t, err)
	require.NoError(t, v.Approve())
	require.NoError(t, vacations.SaveVacationDecision(ctx, v))
	assert.ErrorIs(t, vacations.SaveVacationDecision(ctx, v), request.ErrRequestAlreadyProcessed)

	approved, err := vacations.ListVacations(ctx, request.ListFilter{Status: request.StatusApproved})
	require.NoError(t, err)
	assert.Len(t, approved, 1)

	_, err = vacations.GetVacation(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, request.ErrVacationNotFound)

	corrections := postgresql.NewCorrectionRepository(setup.DB)
	c, err := corrections.GetCorrection(ctx, correctionID)
	require.NoError(t, err)
	assert.Equal(t, "12:30", c.BreakEnd)
	require.NoError(t, c.Deny())
	require.NoError(t, corrections.SaveCorrectionDecision(ctx, c))

	denied, err := corrections.ListCorrections(ctx, request.ListFilter{Status: request.StatusDenied, Username: "anna"})
	require.NoError(t, err)
	require.Len(t, denied, 1)
	assert.Equal(t, request.StatusDenied, denied[0].Status())
}

func TestAccountRepository(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	setup.createUser(t, "admin", true, `[]`)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = setup.DB.Exec(ctx, `INSERT INTO accounts (username, password_hash) VALUES ($1, $2)`, "admin", string(hash))
	require.NoError(t, err)

	repo := postgresql.NewAccountRepository(setup.DB)
	account, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, account.IsAdmin)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("s3cret-pass")))

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, auth.ErrAccountNotFound)
}
