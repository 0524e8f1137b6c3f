package sqldb

import (
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	// Drivers register with database/sql from package init, which is the
	// process-wide once-initialization the façade relies on.
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	// sqliteScheme prefixes connection strings of the embedded backend.
	sqliteScheme = "sqlite3:"
	// sqliteMemory is the embedded in-memory variant, which cannot serve
	// more than one session and therefore cannot pool.
	sqliteMemory = "sqlite3://:memory:"

	setSerializableSQL = "SET SESSION CHARACTERISTICS AS TRANSACTION " +
		"ISOLATION LEVEL SERIALIZABLE"
	setWALJournalSQL = "PRAGMA journal_mode = WAL"
)

// dbLog tags all façade log events.
var dbLog = log.WithField("tag", "Database")

// Config configures a DB. It is immutable for the lifetime of the façade.
type Config struct {
	// ConnectionString identifies the backend and its location. It is
	// opaque to the façade beyond scheme detection (see package docs).
	ConnectionString string
	// StatementCacheSize caps the prepared-statement cache, evicting (and
	// closing) least-recently-used statements past the cap. Zero means
	// unbounded, which is the appropriate default for the node's bounded
	// query vocabulary.
	StatementCacheSize int
	// Schemas are the persisted-entity collaborators Initialize drops and
	// recreates, in dependency order.
	Schemas []Schema
}

// DB is the database access façade. The zero value is not usable; construct
// with Open. See the package documentation for the threading model.
type DB struct {
	cfg       Config
	session   *Session
	stmts     *stmtCache
	pool      *SessionPool
	capturing bool
}

// Open connects the foreground session and applies backend session setup:
// write-ahead journaling for the embedded backend, serializable isolation
// for postgres. Open failure is fatal to node startup.
func Open(cfg Config) (*DB, error) {
	dbLog.WithField("url", cfg.ConnectionString).Info("connecting to database")

	var db = &DB{cfg: cfg}
	var driver, dsn = driverAndDSN(cfg.ConnectionString)

	var sess, err = openSession(driver, dsn)
	if err != nil {
		return nil, WrapErr(err, OpenFailed, "opening database %q", cfg.ConnectionString)
	}
	db.session = sess

	if db.IsSqlite() {
		_, err = sess.Exec(setWALJournalSQL)
	} else {
		_, err = sess.Exec(setSerializableSQL)
	}
	if err != nil {
		_ = sess.Close()
		return nil, WrapErr(err, OpenFailed, "configuring session of %q", cfg.ConnectionString)
	}

	db.stmts, err = newStmtCache(sess, cfg.StatementCacheSize)
	if err != nil {
		_ = sess.Close()
		return nil, err
	}
	return db, nil
}

// driverAndDSN maps a connection string to a database/sql driver name and
// its DSN. "sqlite3:///path/db.sqlite" and "sqlite3:path/db.sqlite" both
// resolve to the sqlite3 driver; anything without the sqlite3 scheme is
// handed to lib/pq unchanged.
func driverAndDSN(conn string) (string, string) {
	if strings.HasPrefix(conn, sqliteScheme) {
		var dsn = strings.TrimPrefix(conn, sqliteScheme)
		dsn = strings.TrimPrefix(dsn, "//")
		return "sqlite3", dsn
	}
	return "postgres", conn
}

// Session returns the foreground session. It is owned by the primary
// thread; worker threads lease from Pool instead.
func (db *DB) Session() *Session { return db.session }

// IsSqlite returns whether the configured backend is embedded SQLite.
func (db *DB) IsSqlite() bool {
	return strings.HasPrefix(db.cfg.ConnectionString, sqliteScheme)
}

// CanUsePool returns whether the backend supports multiple concurrent
// sessions. The in-memory embedded variant does not.
func (db *DB) CanUsePool() bool {
	return db.cfg.ConnectionString != sqliteMemory
}

// Initialize tears down and recreates the schema of every registered
// entity collaborator, in registration order. Dependent entities must be
// registered before those they depend on. The first collaborator failure
// aborts initialization.
func (db *DB) Initialize() error {
	for _, s := range db.cfg.Schemas {
		dbLog.WithField("entity", s.Name()).Info("initializing schema")

		if err := s.DropAll(db); err != nil {
			return WrapErr(err, SchemaInitFailed, "dropping schema of %q", s.Name())
		}
		if err := s.CreateAll(db); err != nil {
			return WrapErr(err, SchemaInitFailed, "creating schema of %q", s.Name())
		}
	}
	return nil
}

// Close releases the statement cache, the pool (if built), and the
// foreground session, in that order.
func (db *DB) Close() error {
	var first error

	db.stmts.close()
	if db.pool != nil {
		if err := db.pool.close(); err != nil && first == nil {
			first = err
		}
	}
	if err := db.session.Close(); err != nil && first == nil {
		first = err
	}
	return errors.WithMessage(first, "closing database")
}
