// Package storetest opens a migrated in-memory SQLite database for tests
// that want real SQL behind the repositories.
package storetest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/tasktracker/internal/dbx"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

// Open returns a fresh database with the schema applied. It is closed when
// the test ends.
func Open(t testing.TB) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()
	ctx := context.Background()

	db, err := repomanager.Open(ctx, dbx.DialectSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, `PRAGMA foreign_keys = ON`)
	require.NoError(t, err)

	rm, err := repomanager.NewRepositoryManager(dbx.DialectSQLite)
	require.NoError(t, err)
	require.NoError(t, rm.RunMigrations(ctx, db))

	return db, rm
}

// MustCreateUser inserts a user row directly and returns its id.
func MustCreateUser(t testing.TB, db *sql.DB, email, hash string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRowContext(context.Background(),
		`INSERT INTO users (email, password_hash) VALUES (?, ?) RETURNING id`, email, hash).Scan(&id)
	require.NoError(t, err)
	return id
}
