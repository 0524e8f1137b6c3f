package sqldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteFileURL(t *testing.T) string {
	return "sqlite3://" + filepath.Join(t.TempDir(), "test.db")
}

func openTestDB(t *testing.T, conn string) *DB {
	var db, err = Open(Config{ConnectionString: conn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDriverAndDSNMapping(t *testing.T) {
	var driver, dsn = driverAndDSN("sqlite3:///tmp/db.sqlite")
	assert.Equal(t, "sqlite3", driver)
	assert.Equal(t, "/tmp/db.sqlite", dsn)

	driver, dsn = driverAndDSN("sqlite3://:memory:")
	assert.Equal(t, "sqlite3", driver)
	assert.Equal(t, ":memory:", dsn)

	driver, dsn = driverAndDSN("sqlite3:relative/path.db")
	assert.Equal(t, "sqlite3", driver)
	assert.Equal(t, "relative/path.db", dsn)

	driver, dsn = driverAndDSN("postgresql://host/db")
	assert.Equal(t, "postgres", driver)
	assert.Equal(t, "postgresql://host/db", dsn)
}

func TestOpenSqliteEnablesJournaling(t *testing.T) {
	var db = openTestDB(t, sqliteFileURL(t))

	assert.True(t, db.IsSqlite())
	assert.True(t, db.CanUsePool())

	var mode string
	require.NoError(t, db.Session().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestOpenFailureSurfacesAsOpenFailed(t *testing.T) {
	var _, err = Open(Config{
		ConnectionString: "sqlite3://" + filepath.Join(t.TempDir(), "no", "such", "dir", "test.db"),
	})
	require.Error(t, err)
	assert.True(t, IsError(err, OpenFailed))
}

func TestMemoryBackendRemainsUsableWithoutPool(t *testing.T) {
	var db = openTestDB(t, "sqlite3://:memory:")

	assert.True(t, db.IsSqlite())
	assert.False(t, db.CanUsePool())

	var _, err = db.Pool()
	require.Error(t, err)
	assert.True(t, IsError(err, PoolUnavailable))

	// The foreground session is unaffected by the failed pool request.
	var st *StmtToken
	st, err = db.PreparedStatement("SELECT 1")
	require.NoError(t, err)

	var one int
	require.NoError(t, st.QueryRow().Scan(&one))
	assert.Equal(t, 1, one)
}
