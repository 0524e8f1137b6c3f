package sqldb

import (
	"context"
	"runtime"

	log "github.com/sirupsen/logrus"
)

// SessionPool is a fixed set of sessions leased by worker threads. Its size
// is host hardware parallelism at the moment of first construction, and is
// never resized or reopened. A leased session is exclusively owned by its
// lessee until returned.
type SessionPool struct {
	sessions []*Session
	free     chan *Session
}

// Pool returns the lazily constructed session pool, building it on first
// call. It fails with PoolUnavailable when the backend cannot support
// concurrent sessions.
func (db *DB) Pool() (*SessionPool, error) {
	if db.pool != nil {
		return db.pool, nil
	}
	if !db.CanUsePool() {
		return nil, NewErr(PoolUnavailable,
			"cannot create connection pool to %q", db.cfg.ConnectionString)
	}

	var n = runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	dbLog.WithFields(log.Fields{
		"url":  db.cfg.ConnectionString,
		"size": n,
	}).Info("establishing connection pool")

	var driver, dsn = driverAndDSN(db.cfg.ConnectionString)
	var pool = &SessionPool{free: make(chan *Session, n)}

	for i := 0; i != n; i++ {
		dbLog.WithField("entry", i).Debug("opening pool entry")

		var sess, err = openSession(driver, dsn)
		if err == nil && !db.IsSqlite() {
			// Journaling is a database-wide setting already established by
			// the foreground session; only postgres isolation is per-session.
			_, err = sess.Exec(setSerializableSQL)
		}
		if err != nil {
			_ = pool.close()
			return nil, WrapErr(err, OpenFailed, "opening pool entry %d of %q",
				i, db.cfg.ConnectionString)
		}
		pool.sessions = append(pool.sessions, sess)
		pool.free <- sess
	}
	db.pool = pool
	return pool, nil
}

// Size returns the fixed number of sessions in the pool.
func (p *SessionPool) Size() int { return len(p.sessions) }

// Lease blocks until a session is available, and returns it. The caller
// must Return the session when its operation completes.
func (p *SessionPool) Lease() *Session { return <-p.free }

// LeaseCtx is Lease, abandoned when |ctx| is cancelled first.
func (p *SessionPool) LeaseCtx(ctx context.Context) (*Session, error) {
	select {
	case sess := <-p.free:
		return sess, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Return puts a leased session back into the pool.
func (p *SessionPool) Return(sess *Session) { p.free <- sess }

func (p *SessionPool) close() error {
	var first error
	for _, sess := range p.sessions {
		if err := sess.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
