package passwordresets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
)

// SQLRepository implements Repository over dbx.DBTX (satisfied by *sql.DB
// or *sql.Tx).
type SQLRepository struct {
	db dbx.DBTX
}

// NewSQLRepository constructs a repository bound to the given DBTX.
func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, reset *models.PasswordReset) (*models.PasswordReset, error) {
	query := `
		INSERT INTO password_resets (user_id, token, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, reset.UserID, reset.Token, reset.CreatedAt).Scan(&reset.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return reset, nil
}

func (r *SQLRepository) Find(ctx context.Context, token string) (*models.PasswordReset, error) {
	query := `
		SELECT id, user_id, token, created_at
		FROM password_resets
		WHERE token = $1
	`
	reset := &models.PasswordReset{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(&reset.ID, &reset.UserID, &reset.Token, &reset.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return reset, nil
}

func (r *SQLRepository) Delete(ctx context.Context, token string) (int64, error) {
	query := `
		DELETE FROM password_resets
		WHERE token = $1
	`
	return r.exec(ctx, query, token)
}

func (r *SQLRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	query := `
		DELETE FROM password_resets
		WHERE user_id = $1
	`
	return r.exec(ctx, query, userID)
}

func (r *SQLRepository) DeleteCreatedBefore(ctx context.Context, cutoff int64) (int64, error) {
	query := `
		DELETE FROM password_resets
		WHERE created_at < $1
	`
	return r.exec(ctx, query, cutoff)
}

func (r *SQLRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
