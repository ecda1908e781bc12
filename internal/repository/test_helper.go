package repository

import (
	"testing"

	"github.com/nimasrn/record-shop/pkg/pg"
	"github.com/stretchr/testify/require"
)

// SetupTestDB opens a private in-memory sqlite database with every table
// migrated. The database is closed when the test ends.
func SetupTestDB(t testing.TB) *pg.DB {
	t.Helper()

	db, err := pg.CreateSqlite(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(t.Context(), db))

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
