package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
)

// SQLRepository implements task storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type SQLRepository struct {
	db dbx.DBTX
}

// NewSQLRepository constructs a repository bound to the given DBTX.
func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

const selectColumns = `SELECT id, user_id, title, subject, due_date, priority, status FROM tasks`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern turns a search term into a substring pattern with LIKE
// wildcards escaped.
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}

// searchClause matches the raw pattern $raw against the columns as stored and
// the lowercased pattern $folded against LOWER(column). SQLite folds only
// ASCII in LIKE and LOWER, so the raw arm keeps exact-case non-ASCII matches.
func searchClause(raw, folded int) string {
	return fmt.Sprintf(`(title LIKE $%[1]d ESCAPE '\' OR subject LIKE $%[1]d ESCAPE '\'`+
		` OR LOWER(title) LIKE $%[2]d ESCAPE '\' OR LOWER(subject) LIKE $%[2]d ESCAPE '\')`, raw, folded)
}

func (r *SQLRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query := `
		INSERT INTO tasks (user_id, title, subject, due_date, priority, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		task.UserID, task.Title, task.Subject, task.DueDate, string(task.Priority), string(task.Status)).Scan(&task.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

// List builds the WHERE clause from the filter fields that are set.
func (r *SQLRepository) List(ctx context.Context, userID int64, filter models.TaskFilter) ([]models.Task, error) {
	var sb strings.Builder
	sb.WriteString(selectColumns)
	sb.WriteString(` WHERE user_id = $1`)
	args := []any{userID}

	if filter.StatusSet() {
		args = append(args, filter.Status)
		fmt.Fprintf(&sb, ` AND status = $%d`, len(args))
	}
	if filter.PrioritySet() {
		args = append(args, filter.Priority)
		fmt.Fprintf(&sb, ` AND priority = $%d`, len(args))
	}
	if filter.SearchSet() {
		pattern := likePattern(filter.Search)
		args = append(args, pattern, strings.ToLower(pattern))
		sb.WriteString(" AND " + searchClause(len(args)-1, len(args)))
	}
	sb.WriteString(` ORDER BY id`)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	defer rows.Close()

	result := []models.Task{}
	for rows.Next() {
		var item models.Task
		if err := scanTask(rows, &item); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) Get(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	query := selectColumns + ` WHERE id = $1 AND user_id = $2`

	task := &models.Task{}
	if err := scanTask(r.db.QueryRowContext(ctx, query, taskID, userID), task); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *SQLRepository) MarkDone(ctx context.Context, userID, taskID int64) (int64, error) {
	query := `UPDATE tasks SET status = $1 WHERE id = $2 AND user_id = $3`
	return r.exec(ctx, query, string(models.StatusDone), taskID, userID)
}

func (r *SQLRepository) Update(ctx context.Context, userID, taskID int64, in models.TaskInput) (int64, error) {
	query := `UPDATE tasks SET title = $1, due_date = $2, priority = $3 WHERE id = $4 AND user_id = $5`
	return r.exec(ctx, query, in.Title, in.DueDate, string(in.Priority), taskID, userID)
}

func (r *SQLRepository) Delete(ctx context.Context, userID, taskID int64) (int64, error) {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	return r.exec(ctx, query, taskID, userID)
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

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner, t *models.Task) error {
	var priority, status string
	if err := s.Scan(&t.ID, &t.UserID, &t.Title, &t.Subject, &t.DueDate, &priority, &status); err != nil {
		return err
	}
	t.Priority = models.Priority(priority)
	t.Status = models.Status(status)
	return nil
}
