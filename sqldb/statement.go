package sqldb

import (
	"database/sql"

	lru "github.com/hashicorp/golang-lru"
)

// StmtToken is a scoped reference to a cached prepared statement. Tokens
// returned for equal query text alias one underlying handle, which remains
// usable for the façade's lifetime (or, with a capped cache, until evicted
// after the token's use). Execution through the token feeds the foreground
// session's SQL trace sink, so captures observe statement executions.
type StmtToken struct {
	sess  *Session
	query string
	stmt  *sql.Stmt
}

// Query returns the exact query text the token was prepared with.
func (t *StmtToken) Query() string { return t.query }

// Stmt returns the underlying prepared-statement handle.
func (t *StmtToken) Stmt() *sql.Stmt { return t.stmt }

// Exec runs the statement with |args|.
func (t *StmtToken) Exec(args ...interface{}) (sql.Result, error) {
	t.sess.traceSQL(t.query)
	var res, err = t.stmt.Exec(args...)
	if err != nil {
		return nil, WrapErr(err, ExecuteFailed, "executing %q", t.query)
	}
	return res, nil
}

// QueryRows runs the statement with |args|, returning its rows.
func (t *StmtToken) QueryRows(args ...interface{}) (*sql.Rows, error) {
	t.sess.traceSQL(t.query)
	var rows, err = t.stmt.Query(args...)
	if err != nil {
		return nil, WrapErr(err, ExecuteFailed, "querying %q", t.query)
	}
	return rows, nil
}

// QueryRow runs the statement with |args|, scanning at most one row.
func (t *StmtToken) QueryRow(args ...interface{}) *sql.Row {
	t.sess.traceSQL(t.query)
	return t.stmt.QueryRow(args...)
}

// PreparedStatement returns a token for |query|, preparing and caching it
// against the foreground session on first use. A failed prepare is not
// cached. The cache is bound to the foreground session and is not safe for
// concurrent use; pool-session statements are not cached here.
func (db *DB) PreparedStatement(query string) (*StmtToken, error) {
	if stmt, ok := db.stmts.get(query); ok {
		return &StmtToken{sess: db.session, query: query, stmt: stmt}, nil
	}
	var stmt, err = db.session.Prepare(query)
	if err != nil {
		return nil, WrapErr(err, PrepareFailed, "preparing %q", query)
	}
	db.stmts.put(query, stmt)
	return &StmtToken{sess: db.session, query: query, stmt: stmt}, nil
}

// stmtCache maps exact query text to statements prepared on the foreground
// session. The default is unbounded growth over the node's bounded query
// vocabulary; a positive cap switches to an LRU which closes evicted
// statements.
type stmtCache struct {
	sess *Session
	all  map[string]*sql.Stmt
	lru  *lru.Cache
}

func newStmtCache(sess *Session, size int) (*stmtCache, error) {
	var c = &stmtCache{sess: sess}
	if size > 0 {
		var err error
		if c.lru, err = lru.NewWithEvict(size, func(_, value interface{}) {
			_ = value.(*sql.Stmt).Close()
		}); err != nil {
			return nil, err
		}
	} else {
		c.all = make(map[string]*sql.Stmt)
	}
	return c, nil
}

func (c *stmtCache) get(query string) (*sql.Stmt, bool) {
	if c.lru != nil {
		if v, ok := c.lru.Get(query); ok {
			return v.(*sql.Stmt), true
		}
		return nil, false
	}
	var stmt, ok = c.all[query]
	return stmt, ok
}

func (c *stmtCache) put(query string, stmt *sql.Stmt) {
	if c.lru != nil {
		c.lru.Add(query, stmt)
	} else {
		c.all[query] = stmt
	}
}

func (c *stmtCache) len() int {
	if c.lru != nil {
		return c.lru.Len()
	}
	return len(c.all)
}

func (c *stmtCache) close() {
	if c.lru != nil {
		c.lru.Purge()
		return
	}
	for _, stmt := range c.all {
		_ = stmt.Close()
	}
	c.all = nil
}
