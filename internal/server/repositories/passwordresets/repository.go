// Package passwordresets declares the repository contract for password
// reset tokens and implements it over database/sql.
package passwordresets

import (
	"context"

	"github.com/dmitrijs2005/tasktracker/internal/server/models"
)

// Repository stores single-use password reset tokens.
type Repository interface {
	// Create stores a new token row and fills in its ID. A token that is
	// already present yields common.ErrorAlreadyExists.
	Create(ctx context.Context, reset *models.PasswordReset) (*models.PasswordReset, error)

	// Find looks a row up by exact token. Absent tokens yield common.ErrorNotFound.
	Find(ctx context.Context, token string) (*models.PasswordReset, error)

	// Delete removes the row with the given token and reports how many rows
	// went away. Zero is not an error.
	Delete(ctx context.Context, token string) (int64, error)

	// DeleteByUser removes every outstanding token of the user.
	DeleteByUser(ctx context.Context, userID int64) (int64, error)

	// DeleteCreatedBefore removes rows with created_at < cutoff (unix seconds).
	DeleteCreatedBefore(ctx context.Context, cutoff int64) (int64, error)
}
