package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.lumend.dev/core/sqldb"
)

func openTestDB(t *testing.T) *sqldb.DB {
	var db, err = sqldb.Open(sqldb.Config{
		ConnectionString: "sqlite3://" + filepath.Join(t.TempDir(), "state.db"),
		Schemas:          []sqldb.Schema{PersistentState{}},
	})
	require.NoError(t, err)
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestStateSeedsEveryKey(t *testing.T) {
	var db = openTestDB(t)

	for _, k := range Keys {
		var value, err = Get(db, k)
		require.NoError(t, err)
		assert.Empty(t, value)
	}
}

func TestStateSetAndGet(t *testing.T) {
	var db = openTestDB(t)

	require.NoError(t, Set(db, LastClosedLedger, "e2f4"))

	var value, err = Get(db, LastClosedLedger)
	require.NoError(t, err)
	assert.Equal(t, "e2f4", value)

	// A second set overwrites.
	require.NoError(t, Set(db, LastClosedLedger, "a1b3"))
	value, err = Get(db, LastClosedLedger)
	require.NoError(t, err)
	assert.Equal(t, "a1b3", value)

	// Other keys are untouched.
	value, err = Get(db, DatabaseSchema)
	require.NoError(t, err)
	assert.Empty(t, value)
}
