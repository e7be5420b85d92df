package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/timesheet-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type accountRepositoryImpl struct {
	db *database.DB
}

func NewAccountRepository(db *database.DB) auth.AccountRepository {
	return &accountRepositoryImpl{db: db}
}

// GetByUsername implements auth.AccountRepository.
func (r *accountRepositoryImpl) GetByUsername(ctx context.Context, username string) (auth.Account, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.username, a.password_hash, u.is_admin, a.created_at, a.updated_at
		FROM accounts a
		INNER JOIN users u ON u.username = a.username
		WHERE a.username = $1
	`

	var a auth.Account
	err := q.QueryRow(ctx, query, username).Scan(
		&a.Username,
		&a.PasswordHash,
		&a.IsAdmin,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Account{}, auth.ErrAccountNotFound
		}
		return auth.Account{}, err
	}
	return a, nil
}
