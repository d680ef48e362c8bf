package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/repomanager"
)

// TaskService manages a user's tasks. Every call is scoped to userID;
// ids of other users' tasks behave like missing ones.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *TaskService {
	return &TaskService{db: db, repomanager: m, log: log.With("service", "tasks")}
}

// Create stores a new Pending task. The title is required; an unknown
// priority becomes Medium.
func (s *TaskService) Create(ctx context.Context, userID int64, in models.TaskInput) (*models.Task, error) {
	in = cleanInput(in)
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	task := &models.Task{
		UserID:   userID,
		Title:    in.Title,
		Subject:  in.Subject,
		DueDate:  in.DueDate,
		Priority: in.Priority,
		Status:   models.StatusPending,
	}
	t, err := s.repomanager.Tasks(s.db).Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	s.log.Debug(ctx, "task created", "user_id", userID, "task_id", t.ID)
	return t, nil
}

// List returns the user's tasks matching filter in insertion order, and
// the counts over that same list.
func (s *TaskService) List(ctx context.Context, userID int64, filter models.TaskFilter) ([]models.Task, models.Summary, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	tasks, err := s.repomanager.Tasks(s.db).List(ctx, userID, filter)
	if err != nil {
		return nil, models.Summary{}, fmt.Errorf("error listing tasks: %w", err)
	}
	return tasks, models.Summarize(tasks), nil
}

// Get returns common.ErrorNotFound for missing or foreign tasks.
func (s *TaskService) Get(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	return s.repomanager.Tasks(s.db).Get(ctx, userID, taskID)
}

func (s *TaskService) MarkDone(ctx context.Context, userID, taskID int64) error {
	n, err := s.repomanager.Tasks(s.db).MarkDone(ctx, userID, taskID)
	if err != nil {
		return fmt.Errorf("error updating task: %w", err)
	}
	s.logNoop(ctx, "mark done", userID, taskID, n)
	return nil
}

// Update changes title, due date and priority. Status and subject stay.
func (s *TaskService) Update(ctx context.Context, userID, taskID int64, in models.TaskInput) error {
	in = cleanInput(in)
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	n, err := s.repomanager.Tasks(s.db).Update(ctx, userID, taskID, in)
	if err != nil {
		return fmt.Errorf("error updating task: %w", err)
	}
	s.logNoop(ctx, "update", userID, taskID, n)
	return nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID int64) error {
	n, err := s.repomanager.Tasks(s.db).Delete(ctx, userID, taskID)
	if err != nil {
		return fmt.Errorf("error deleting task: %w", err)
	}
	s.logNoop(ctx, "delete", userID, taskID, n)
	return nil
}

func (s *TaskService) logNoop(ctx context.Context, op string, userID, taskID, rows int64) {
	if rows == 0 {
		s.log.Debug(ctx, "task operation matched nothing", "op", op, "user_id", userID, "task_id", taskID)
	}
}

func cleanInput(in models.TaskInput) models.TaskInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Subject = strings.TrimSpace(in.Subject)
	in.DueDate = strings.TrimSpace(in.DueDate)
	in.Priority = models.ParsePriority(string(in.Priority))
	return in
}
