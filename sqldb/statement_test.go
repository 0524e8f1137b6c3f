package sqldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreparedStatementsAliasOneHandle(t *testing.T) {
	var db = openTestDB(t, "sqlite3://:memory:")

	_, err := db.Session().Exec("CREATE TABLE t (x INT, y INT)")
	require.NoError(t, err)
	_, err = db.Session().Exec("INSERT INTO t (x, y) VALUES (7, 1), (8, 2)")
	require.NoError(t, err)

	const query = "SELECT x FROM t WHERE y = $1"
	var st1, err1 = db.PreparedStatement(query)
	require.NoError(t, err1)
	var st2, err2 = db.PreparedStatement(query)
	require.NoError(t, err2)

	// Equal query text aliases one underlying handle, cached once.
	assert.Same(t, st1.Stmt(), st2.Stmt())
	assert.Equal(t, 1, db.stmts.len())

	var x1, x2 int
	require.NoError(t, st1.QueryRow(2).Scan(&x1))
	require.NoError(t, st2.QueryRow(2).Scan(&x2))
	assert.Equal(t, x1, x2)

	// Distinct query text yields a distinct handle.
	var st3, err3 = db.PreparedStatement("SELECT y FROM t WHERE x = $1")
	require.NoError(t, err3)
	assert.NotSame(t, st1.Stmt(), st3.Stmt())
	assert.Equal(t, 2, db.stmts.len())
}

func TestFailedPrepareIsNotCached(t *testing.T) {
	var db = openTestDB(t, "sqlite3://:memory:")

	var _, err = db.PreparedStatement("SELECT nope FROM no_such_table")
	require.Error(t, err)
	assert.True(t, IsError(err, PrepareFailed))
	assert.Equal(t, 0, db.stmts.len())

	// The façade remains usable after a failed prepare.
	var st, err2 = db.PreparedStatement("SELECT 1")
	require.NoError(t, err2)

	var one int
	require.NoError(t, st.QueryRow().Scan(&one))
	assert.Equal(t, 1, one)
}

func TestStatementCacheCapEvictsLRU(t *testing.T) {
	var db, err = Open(Config{
		ConnectionString:   "sqlite3://:memory:",
		StatementCacheSize: 2,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for _, q := range []string{"SELECT 1", "SELECT 2", "SELECT 3"} {
		var _, err = db.PreparedStatement(q)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, db.stmts.len())

	// The least-recently-used entry was evicted; re-preparing it works and
	// re-enters the cache.
	var st, err2 = db.PreparedStatement("SELECT 1")
	require.NoError(t, err2)

	var one int
	require.NoError(t, st.QueryRow().Scan(&one))
	assert.Equal(t, 1, one)
	assert.Equal(t, 2, db.stmts.len())
}

func TestExecuteErrorsAreClassified(t *testing.T) {
	var db = openTestDB(t, "sqlite3://:memory:")

	_, err := db.Session().Exec("CREATE TABLE t (x INT PRIMARY KEY)")
	require.NoError(t, err)

	var st, err1 = db.PreparedStatement("INSERT INTO t (x) VALUES ($1)")
	require.NoError(t, err1)

	_, err = st.Exec(1)
	require.NoError(t, err)
	_, err = st.Exec(1) // constraint violation
	require.Error(t, err)
	assert.True(t, IsError(err, ExecuteFailed))
}
