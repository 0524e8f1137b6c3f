package sqldb

import (
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureFramesExecutedSQL(t *testing.T) {
	var db = openTestDB(t, "sqlite3://:memory:")

	var hook = logtest.NewGlobal()
	defer hook.Reset()

	var capture, err = db.CaptureSQL("load-ledger")
	require.NoError(t, err)

	_, err = db.Session().Exec("CREATE TABLE capt (x INT)")
	require.NoError(t, err)

	var st *StmtToken
	st, err = db.PreparedStatement("INSERT INTO capt (x) VALUES ($1)")
	require.NoError(t, err)
	_, err = st.Exec(42)
	require.NoError(t, err)

	// Nothing is emitted until release.
	assert.Empty(t, hook.Entries)

	capture.Release()

	var msgs []string
	for _, e := range hook.Entries {
		assert.Equal(t, "Database", e.Data["tag"])
		msgs = append(msgs, e.Message)
	}
	assert.Equal(t, []string{
		"[SQL] -----------------------",
		"[SQL] begin capture: load-ledger",
		"[SQL] -----------------------",
		"[SQL:load-ledger] CREATE TABLE capt (x INT)",
		"[SQL:load-ledger] INSERT INTO capt (x) VALUES ($1)",
		"[SQL] -----------------------",
		"[SQL] end capture: load-ledger",
		"[SQL] -----------------------",
	}, msgs)

	// The trace sink was restored to none: statements executed after
	// release are not buffered, and a repeated release emits nothing.
	var emitted = len(hook.Entries)
	assert.Nil(t, db.session.trace)

	_, err = db.Session().Exec("DROP TABLE capt")
	require.NoError(t, err)
	capture.Release()
	assert.Len(t, hook.Entries, emitted)
}

func TestCapturesDoNotNest(t *testing.T) {
	var db = openTestDB(t, "sqlite3://:memory:")

	var capture, err = db.CaptureSQL("outer")
	require.NoError(t, err)

	var _, errInner = db.CaptureSQL("inner")
	require.Error(t, errInner)

	capture.Release()

	// With the first capture released, a new one may begin.
	var again, errAgain = db.CaptureSQL("inner")
	require.NoError(t, errAgain)
	again.Release()
}
