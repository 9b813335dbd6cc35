// Package upperdbtest spins up a sqlite-backed store for tests.
package upperdbtest

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/upper/db/v4/adapter/sqlite"

	"github.com/inkwell-app/inkwell-be/db/upperdb"
)

var schema = []string{
	`CREATE TABLE person (
		firebase_id TEXT NOT NULL PRIMARY KEY,
		username    TEXT NOT NULL UNIQUE,
		is_admin    BOOLEAN NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE post_group (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT NOT NULL,
		slug        TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE post (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		author_id       TEXT NOT NULL,
		text            TEXT NOT NULL,
		group_id        INTEGER,
		image_blob_name TEXT,
		created_at      DATETIME NOT NULL,
		updated_at      DATETIME NOT NULL
	)`,
	`CREATE TABLE comment (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		post_id    INTEGER NOT NULL,
		author_id  TEXT NOT NULL,
		text       TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE follow (
		user_id   TEXT NOT NULL,
		author_id TEXT NOT NULL,
		PRIMARY KEY (user_id, author_id)
	)`,
}

// New returns a store over a fresh sqlite database that lives for the
// duration of the test.
func New(t *testing.T) *upperdb.UpperDB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	for _, stmt := range schema {
		_, err := sqlDB.Exec(stmt)
		require.NoError(t, err)
	}

	sess, err := sqlite.New(sqlDB)
	require.NoError(t, err)

	store := upperdb.New(sess, sqlDB)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
