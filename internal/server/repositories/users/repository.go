// Package users declares and implements storage of user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/tasktracker/internal/server/models"
)

// Repository persists user accounts.
type Repository interface {
	// Create inserts the user and fills in its ID. A taken email yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns common.ErrorNotFound when no user has that email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns common.ErrorNotFound for an unknown id.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// UpdatePasswordHash replaces the stored hash. Unknown ids yield
	// common.ErrorNotFound.
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}
