package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/tasktracker/internal/cryptox"
	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server/config"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/passwordresets"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "k"
	cfg.BcryptCost = bcrypt.MinCost
	return cfg
}

func testHasher(t *testing.T) *cryptox.Hasher {
	t.Helper()
	h, err := cryptox.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

// fakeClock is a settable time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1_700_000_000, 0)}
}

// --- fakes ---

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error

	updateErr   error
	updatedID   int64
	updatedHash string
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	u.ID = 1
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	f.updatedID, f.updatedHash = id, hash
	return f.updateErr
}

type fakeResetsRepo struct {
	createErrs []error
	created    []models.PasswordReset

	findOut *models.PasswordReset
	findErr error

	deleteN   int64
	deleteErr error

	sweepCutoff int64
	sweepN      int64
	sweepErr    error
}

func (f *fakeResetsRepo) Create(ctx context.Context, r *models.PasswordReset) (*models.PasswordReset, error) {
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	f.created = append(f.created, *r)
	return r, nil
}

func (f *fakeResetsRepo) Find(ctx context.Context, token string) (*models.PasswordReset, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeResetsRepo) Delete(ctx context.Context, token string) (int64, error) {
	return f.deleteN, f.deleteErr
}

func (f *fakeResetsRepo) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	return 0, nil
}

func (f *fakeResetsRepo) DeleteCreatedBefore(ctx context.Context, cutoff int64) (int64, error) {
	f.sweepCutoff = cutoff
	return f.sweepN, f.sweepErr
}

type fakeTasksRepo struct {
	listOut []models.Task
	listErr error
	execErr error
	gotIn   models.TaskInput
}

func (f *fakeTasksRepo) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	if f.execErr != nil {
		return nil, f.execErr
	}
	t.ID = 1
	return t, nil
}

func (f *fakeTasksRepo) List(ctx context.Context, userID int64, filter models.TaskFilter) ([]models.Task, error) {
	return f.listOut, f.listErr
}

func (f *fakeTasksRepo) Get(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	return nil, f.execErr
}

func (f *fakeTasksRepo) MarkDone(ctx context.Context, userID, taskID int64) (int64, error) {
	return 0, f.execErr
}

func (f *fakeTasksRepo) Update(ctx context.Context, userID, taskID int64, in models.TaskInput) (int64, error) {
	f.gotIn = in
	return 1, f.execErr
}

func (f *fakeTasksRepo) Delete(ctx context.Context, userID, taskID int64) (int64, error) {
	return 0, f.execErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeResetsRepo
	t *fakeTasksRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error         { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository                   { return m.u }
func (m *fakeRepoManager) PasswordResets(db dbx.DBTX) passwordresets.Repository { return m.r }
func (m *fakeRepoManager) Tasks(db dbx.DBTX) tasks.Repository                   { return m.t }

func nopLogger() logging.Logger { return logging.Nop() }
