package sqldb

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolIsBuiltOnceAtHardwareParallelism(t *testing.T) {
	var db = openTestDB(t, sqliteFileURL(t))

	var pool, err = db.Pool()
	require.NoError(t, err)

	var n = runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	assert.Equal(t, n, pool.Size())

	// A second request returns the same pool.
	var again, err2 = db.Pool()
	require.NoError(t, err2)
	assert.Same(t, pool, again)
	assert.Equal(t, n, pool.Size())
}

func TestPoolLeaseAndReturn(t *testing.T) {
	var db = openTestDB(t, sqliteFileURL(t))

	var pool, err = db.Pool()
	require.NoError(t, err)

	// Lease every session. Each is open and usable.
	var leased []*Session
	for i := 0; i != pool.Size(); i++ {
		var sess = pool.Lease()

		var one int
		require.NoError(t, sess.QueryRow("SELECT 1").Scan(&one))
		assert.Equal(t, 1, one)

		leased = append(leased, sess)
	}

	// With the pool drained, a cancelled LeaseCtx returns promptly.
	var ctx, cancel = context.WithCancel(context.Background())
	cancel()
	var _, leaseErr = pool.LeaseCtx(ctx)
	assert.Equal(t, context.Canceled, leaseErr)

	// Returned sessions can be leased again.
	for _, sess := range leased {
		pool.Return(sess)
	}
	var sess, ctxErr = pool.LeaseCtx(context.Background())
	require.NoError(t, ctxErr)
	pool.Return(sess)
}
