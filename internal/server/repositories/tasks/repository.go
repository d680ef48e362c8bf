// Package tasks provides storage for per-user task records.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/tasktracker/internal/server/models"
)

// Repository persists tasks. Every method is scoped by owner: a task id that
// belongs to another user behaves as if it did not exist.
type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	// List returns the user's tasks matching filter, ordered by id.
	List(ctx context.Context, userID int64, filter models.TaskFilter) ([]models.Task, error)
	// Get returns common.ErrorNotFound for unknown or foreign ids.
	Get(ctx context.Context, userID, taskID int64) (*models.Task, error)
	// The mutators report how many rows they touched; 0 is not an error.
	MarkDone(ctx context.Context, userID, taskID int64) (int64, error)
	Update(ctx context.Context, userID, taskID int64, in models.TaskInput) (int64, error)
	Delete(ctx context.Context, userID, taskID int64) (int64, error)
}
