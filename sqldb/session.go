package sqldb

import (
	"context"
	"database/sql"
	"io"
)

// Session is one logical client connection. It wraps a *sql.DB clamped to a
// single underlying connection, so that per-session setup (the sqlite WAL
// pragma, postgres serializable isolation) binds to the one real connection
// for the session's lifetime.
//
// A Session optionally owns a SQL trace sink: while set, the text of every
// statement executed through the Session (or through a StmtToken prepared
// on it) is written to the sink, one statement per line. The sink is
// mutated only by SQLLogContext, from the session owner's thread.
type Session struct {
	db    *sql.DB
	trace io.Writer
}

func openSession(driver, dsn string) (*Session, error) {
	var db, err = sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	// One underlying connection, never recycled: session-scoped statements
	// (pragmas, SET SESSION ...) and prepared statements must survive for
	// the session's lifetime.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Session{db: db}, nil
}

func (s *Session) setTrace(w io.Writer) { s.trace = w }

func (s *Session) traceSQL(query string) {
	if s.trace != nil {
		_, _ = io.WriteString(s.trace, query+"\n")
	}
}

// Exec runs |query| on the session.
func (s *Session) Exec(query string, args ...interface{}) (sql.Result, error) {
	s.traceSQL(query)
	return s.db.Exec(query, args...)
}

// ExecContext runs |query| on the session under |ctx|.
func (s *Session) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	s.traceSQL(query)
	return s.db.ExecContext(ctx, query, args...)
}

// Query runs |query| on the session and returns its rows.
func (s *Session) Query(query string, args ...interface{}) (*sql.Rows, error) {
	s.traceSQL(query)
	return s.db.Query(query, args...)
}

// QueryRow runs |query| on the session, scanning at most one row.
func (s *Session) QueryRow(query string, args ...interface{}) *sql.Row {
	s.traceSQL(query)
	return s.db.QueryRow(query, args...)
}

// Prepare compiles |query| against the session.
func (s *Session) Prepare(query string) (*sql.Stmt, error) {
	return s.db.Prepare(query)
}

// Begin starts a transaction on the session.
func (s *Session) Begin() (*sql.Tx, error) {
	s.traceSQL("BEGIN")
	return s.db.Begin()
}

// BeginTx starts a transaction on the session with |opts|.
func (s *Session) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	s.traceSQL("BEGIN")
	return s.db.BeginTx(ctx, opts)
}

// Close releases the session's connection.
func (s *Session) Close() error { return s.db.Close() }
