// Package state persists small pieces of node state which must survive
// restarts, as a generic key/value table over a fixed key enumeration.
package state

import (
	"database/sql"

	"go.lumend.dev/core/metrics"
	"go.lumend.dev/core/sqldb"
)

const stateEntity = "storestate"

// Key enumerates the persistent-state entries. Only enumerated keys are
// ever read or written; CreateAll seeds one (empty) row per key.
type Key string

const (
	LastClosedLedger     Key = "lastclosedledger"
	HistoryArchiveState  Key = "historyarchivestate"
	ForceSCPOnNextLaunch Key = "forcescponnextlaunch"
	DatabaseSchema       Key = "databaseschema"
)

// Keys lists every persistent-state entry, in seeding order.
var Keys = []Key{
	LastClosedLedger,
	HistoryArchiveState,
	ForceSCPOnNextLaunch,
	DatabaseSchema,
}

const (
	createStateSQL = `
CREATE TABLE storestate (
	statename TEXT PRIMARY KEY NOT NULL,
	state     TEXT NOT NULL
)`
	dropStateSQL = `DROP TABLE IF EXISTS storestate`

	selectStateSQL = `SELECT state FROM storestate WHERE statename = $1`
	insertStateSQL = `INSERT INTO storestate (statename, state) VALUES ($1, $2)`
	updateStateSQL = `UPDATE storestate SET state = $1 WHERE statename = $2`
)

// PersistentState implements sqldb.Schema for the storestate table.
type PersistentState struct{}

var _ sqldb.Schema = PersistentState{}

func (PersistentState) Name() string { return stateEntity }

func (PersistentState) DropAll(db *sqldb.DB) error {
	var _, err = db.Session().Exec(dropStateSQL)
	return err
}

func (PersistentState) CreateAll(db *sqldb.DB) error {
	var _, err = db.Session().Exec(createStateSQL)
	if err != nil {
		return err
	}
	for _, k := range Keys {
		if _, err = db.Session().Exec(insertStateSQL, string(k), ""); err != nil {
			return err
		}
	}
	return nil
}

// Get reads the state value of |key|. A key never seeded (eg, a database
// initialized by an older schema) reads as empty.
func Get(db *sqldb.DB, key Key) (_ string, err error) {
	defer db.SelectTimer(stateEntity).ObserveDuration()
	defer func() { countQuery("select", err) }()

	var st *sqldb.StmtToken
	if st, err = db.PreparedStatement(selectStateSQL); err != nil {
		return "", err
	}
	var value string
	err = st.QueryRow(string(key)).Scan(&value)

	if err == sql.ErrNoRows {
		err = nil
		return "", nil
	} else if err != nil {
		return "", sqldb.WrapErr(err, sqldb.ExecuteFailed, "reading state %q", key)
	}
	return value, nil
}

// Set writes |value| under |key|, inserting the row if it doesn't exist.
func Set(db *sqldb.DB, key Key, value string) (err error) {
	defer db.UpdateTimer(stateEntity).ObserveDuration()
	defer func() { countQuery("update", err) }()

	var st *sqldb.StmtToken
	if st, err = db.PreparedStatement(updateStateSQL); err != nil {
		return err
	}
	var res sql.Result
	if res, err = st.Exec(value, string(key)); err != nil {
		return err
	}
	var n int64
	if n, err = res.RowsAffected(); err != nil {
		return sqldb.WrapErr(err, sqldb.ExecuteFailed, "writing state %q", key)
	}
	if n != 0 {
		return nil
	}

	if st, err = db.PreparedStatement(insertStateSQL); err != nil {
		return err
	}
	_, err = st.Exec(string(key), value)
	return err
}

func countQuery(op string, err error) {
	var status = metrics.Ok
	if err != nil {
		status = metrics.Fail
	}
	metrics.DatabaseQueriesTotal.WithLabelValues(op, stateEntity, status).Inc()
}
