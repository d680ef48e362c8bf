// Package repomanager opens the database, runs the embedded goose
// migrations and vends repositories bound to a handle (*sql.DB or *sql.Tx).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/filex"
	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server/migrations"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/passwordresets"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	PasswordResets(db dbx.DBTX) passwordresets.Repository
	Tasks(db dbx.DBTX) tasks.Repository
}

// SQLRepositoryManager vends the database/sql repositories for one dialect.
// Handles are wrapped with dbx.ForDialect before they reach a repository.
type SQLRepositoryManager struct {
	dialect dbx.Dialect
	log     logging.Logger
}

// Option configures a SQLRepositoryManager.
type Option func(*SQLRepositoryManager)

// WithMigrationLogger sends goose output to l. Without it migrations run
// silently.
func WithMigrationLogger(l logging.Logger) Option {
	return func(m *SQLRepositoryManager) {
		m.log = l.With("module", "migrations")
	}
}

// NewRepositoryManager constructs a manager for the given dialect.
func NewRepositoryManager(dialect dbx.Dialect, opts ...Option) (RepositoryManager, error) {
	if _, err := gooseSettings(dialect); err != nil {
		return nil, err
	}
	m := &SQLRepositoryManager{dialect: dialect, log: logging.Nop()}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(dbx.ForDialect(db, m.dialect))
}

func (m *SQLRepositoryManager) PasswordResets(db dbx.DBTX) passwordresets.Repository {
	return passwordresets.NewSQLRepository(dbx.ForDialect(db, m.dialect))
}

func (m *SQLRepositoryManager) Tasks(db dbx.DBTX) tasks.Repository {
	return tasks.NewSQLRepository(dbx.ForDialect(db, m.dialect))
}

type gooseConfig struct {
	dialect string
	dir     string
}

func gooseSettings(d dbx.Dialect) (gooseConfig, error) {
	switch d {
	case dbx.DialectPostgres:
		return gooseConfig{dialect: "postgres", dir: migrations.DirPostgres}, nil
	case dbx.DialectSQLite:
		return gooseConfig{dialect: "sqlite3", dir: migrations.DirSQLite}, nil
	default:
		return gooseConfig{}, fmt.Errorf("no migrations for dialect %q", d)
	}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations points goose at the embedded migrations of the manager's
// dialect and applies everything pending.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	cfg, err := gooseSettings(m.dialect)
	if err != nil {
		return err
	}
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(gooseLogger{log: m.log})
	if err := goose.SetDialect(cfg.dialect); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, cfg.dir); err != nil {
		return err
	}
	return nil
}

// Open connects to the database and verifies the connection. SQLite gets a
// single connection so that writers serialize and :memory: databases are
// shared by every caller.
func Open(ctx context.Context, dialect dbx.Dialect, dsn string) (*sql.DB, error) {
	if dialect == dbx.DialectSQLite {
		if path := filex.SQLitePath(dsn); path != "" {
			if _, err := filex.EnsureParentDir(path); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, err
	}
	if dialect == dbx.DialectSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
