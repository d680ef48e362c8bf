package tasks

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewSQLRepository(db), mock, db
}

var taskColumns = []string{"id", "user_id", "title", "subject", "due_date", "priority", "status"}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%Report%", likePattern("Report"))
	assert.Equal(t, `%50\%%`, likePattern("50%"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
	assert.Equal(t, `%C:\\tmp%`, likePattern(`C:\tmp`))
	assert.Equal(t, "%Émile%", likePattern("Émile"))
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+tasks\s*\(user_id,\s*title,\s*subject,\s*due_date,\s*priority,\s*status\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*RETURNING\s+id\s*$`
	mock.ExpectQuery(q).
		WithArgs(int64(1), "Essay", "English", "2024-05-01", "High", "Pending").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))

	got, err := repo.Create(context.Background(), &models.Task{
		UserID: 1, Title: "Essay", Subject: "English", DueDate: "2024-05-01",
		Priority: models.PriorityHigh, Status: models.StatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO tasks`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Task{UserID: 1, Title: "x"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestList_BuildsQueryFromFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter models.TaskFilter
		query  string
		args   []any
	}{
		{
			name:   "no filter",
			filter: models.TaskFilter{},
			query:  `(?s)^SELECT .* FROM tasks WHERE user_id = \$1 ORDER BY id$`,
			args:   []any{int64(1)},
		},
		{
			name:   "All is no filter",
			filter: models.TaskFilter{Status: "All", Priority: "All"},
			query:  `(?s)^SELECT .* FROM tasks WHERE user_id = \$1 ORDER BY id$`,
			args:   []any{int64(1)},
		},
		{
			name:   "status and priority",
			filter: models.TaskFilter{Status: "Done", Priority: "High"},
			query:  `(?s)^SELECT .* FROM tasks WHERE user_id = \$1 AND status = \$2 AND priority = \$3 ORDER BY id$`,
			args:   []any{int64(1), "Done", "High"},
		},
		{
			name:   "search only",
			filter: models.TaskFilter{Search: "Math"},
			query:  `(?s)^SELECT .* FROM tasks WHERE user_id = \$1 AND \(title LIKE \$2 ESCAPE '\\' OR subject LIKE \$2 ESCAPE '\\' OR LOWER\(title\) LIKE \$3 ESCAPE '\\' OR LOWER\(subject\) LIKE \$3 ESCAPE '\\'\) ORDER BY id$`,
			args:   []any{int64(1), "%Math%", "%math%"},
		},
		{
			name:   "priority and search",
			filter: models.TaskFilter{Priority: "Low", Search: "X"},
			query:  `(?s)^SELECT .* FROM tasks WHERE user_id = \$1 AND priority = \$2 AND \(title LIKE \$3 .* LOWER\(subject\) LIKE \$4 .*\) ORDER BY id$`,
			args:   []any{int64(1), "Low", "%X%", "%x%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			args := make([]driver.Value, len(tt.args))
			for i, a := range tt.args {
				args[i] = a
			}
			mock.ExpectQuery(tt.query).
				WithArgs(args...).
				WillReturnRows(sqlmock.NewRows(taskColumns).
					AddRow(int64(3), int64(1), "t", "s", "2024-01-01", "High", "Done"))

			got, err := repo.List(context.Background(), 1, tt.filter)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, models.Task{
				ID: 3, UserID: 1, Title: "t", Subject: "s", DueDate: "2024-01-01",
				Priority: models.PriorityHigh, Status: models.StatusDone,
			}, got[0])
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows(taskColumns))

	got, err := repo.List(context.Background(), 1, models.TaskFilter{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("boom"))

	_, err := repo.List(context.Background(), 1, models.TaskFilter{})
	require.Error(t, err)
	assert.Regexp(t, `failed to select tasks: .*boom`, err.Error())
}

func TestList_ScanError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	_, err := repo.List(context.Background(), 1, models.TaskFilter{})
	require.Error(t, err)
}

func TestList_RowsErr(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(taskColumns).
		AddRow(int64(1), int64(1), "t", "", "", "Low", "Pending").
		RowError(0, errors.New("row broke"))
	mock.ExpectQuery(`SELECT`).WillReturnRows(rows)

	_, err := repo.List(context.Background(), 1, models.TaskFilter{})
	require.Error(t, err)
}

func TestGet(t *testing.T) {
	q := `(?s)^SELECT .* FROM tasks WHERE id = \$1 AND user_id = \$2$`

	t.Run("found", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(q).WithArgs(int64(5), int64(1)).
			WillReturnRows(sqlmock.NewRows(taskColumns).
				AddRow(int64(5), int64(1), "t", "s", "", "Medium", "Pending"))

		got, err := repo.Get(context.Background(), 1, 5)
		require.NoError(t, err)
		assert.Equal(t, models.PriorityMedium, got.Priority)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(q).WithArgs(int64(5), int64(2)).WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(context.Background(), 2, 5)
		require.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(q).WithArgs(int64(5), int64(1)).WillReturnError(errors.New("boom"))

		_, err := repo.Get(context.Background(), 1, 5)
		require.Error(t, err)
		assert.Regexp(t, `db error: .*boom`, err.Error())
	})
}

func TestMutators_ScopedByOwner(t *testing.T) {
	tests := []struct {
		name  string
		query string
		args  []driver.Value
		call  func(r *SQLRepository) (int64, error)
	}{
		{
			name:  "mark done",
			query: `(?s)^UPDATE tasks SET status = \$1 WHERE id = \$2 AND user_id = \$3$`,
			args:  []driver.Value{"Done", int64(5), int64(1)},
			call:  func(r *SQLRepository) (int64, error) { return r.MarkDone(context.Background(), 1, 5) },
		},
		{
			name:  "update",
			query: `(?s)^UPDATE tasks SET title = \$1, due_date = \$2, priority = \$3 WHERE id = \$4 AND user_id = \$5$`,
			args:  []driver.Value{"New", "2024-02-02", "Low", int64(5), int64(1)},
			call: func(r *SQLRepository) (int64, error) {
				return r.Update(context.Background(), 1, 5, models.TaskInput{Title: "New", DueDate: "2024-02-02", Priority: models.PriorityLow})
			},
		},
		{
			name:  "delete",
			query: `(?s)^DELETE FROM tasks WHERE id = \$1 AND user_id = \$2$`,
			args:  []driver.Value{int64(5), int64(1)},
			call:  func(r *SQLRepository) (int64, error) { return r.Delete(context.Background(), 1, 5) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectExec(tt.query).WithArgs(tt.args...).WillReturnResult(sqlmock.NewResult(0, 1))
			n, err := tt.call(repo)
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)

			mock.ExpectExec(tt.query).WithArgs(tt.args...).WillReturnResult(sqlmock.NewResult(0, 0))
			n, err = tt.call(repo)
			require.NoError(t, err, "a foreign or missing id is not an error")
			assert.Zero(t, n)

			mock.ExpectExec(tt.query).WithArgs(tt.args...).WillReturnError(errors.New("db down"))
			_, err = tt.call(repo)
			require.Error(t, err)
			assert.Regexp(t, `db error: .*db down`, err.Error())

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
