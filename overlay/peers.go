// Package overlay persists the node's knowledge of other overlay peers:
// their addresses, connection-failure history, and the next time a
// connection attempt is due.
package overlay

import (
	"database/sql"
	"time"

	"go.lumend.dev/core/metrics"
	"go.lumend.dev/core/sqldb"
)

const peerEntity = "peer"

// PeerRecord is one known overlay peer.
type PeerRecord struct {
	IP          string
	Port        int
	NextAttempt time.Time
	NumFailures int
	Rank        int
}

const (
	createPeersSQL = `
CREATE TABLE peers (
	ip          TEXT   NOT NULL,
	port        INT    NOT NULL CHECK (port > 0 AND port <= 65535),
	nextattempt BIGINT NOT NULL,
	numfailures INT    NOT NULL CHECK (numfailures >= 0),
	rank        INT    NOT NULL CHECK (rank >= 0),
	PRIMARY KEY (ip, port)
)`
	dropPeersSQL = `DROP TABLE IF EXISTS peers`

	selectPeersSQL = `SELECT ip, port, nextattempt, numfailures, rank FROM peers ` +
		`ORDER BY rank DESC, numfailures ASC LIMIT $1`
	insertPeerSQL = `INSERT INTO peers (ip, port, nextattempt, numfailures, rank) ` +
		`VALUES ($1, $2, $3, $4, $5)`
	updatePeerSQL = `UPDATE peers SET nextattempt = $1, numfailures = $2, rank = $3 ` +
		`WHERE ip = $4 AND port = $5`
)

// PeerSchema implements sqldb.Schema for the peers table.
type PeerSchema struct{}

var _ sqldb.Schema = PeerSchema{}

func (PeerSchema) Name() string { return peerEntity }

func (PeerSchema) DropAll(db *sqldb.DB) error {
	var _, err = db.Session().Exec(dropPeersSQL)
	return err
}

func (PeerSchema) CreateAll(db *sqldb.DB) error {
	var _, err = db.Session().Exec(createPeersSQL)
	return err
}

// LoadPeers fetches up to |limit| known peers, best-ranked first.
func LoadPeers(db *sqldb.DB, limit int) (_ []PeerRecord, err error) {
	defer db.SelectTimer(peerEntity).ObserveDuration()
	defer func() { countQuery("select", err) }()

	var st *sqldb.StmtToken
	if st, err = db.PreparedStatement(selectPeersSQL); err != nil {
		return nil, err
	}
	var rows, rErr = st.QueryRows(limit)
	if rErr != nil {
		err = rErr
		return nil, err
	}
	defer rows.Close()

	var out []PeerRecord
	for rows.Next() {
		var p PeerRecord
		var next int64
		if err = rows.Scan(&p.IP, &p.Port, &next, &p.NumFailures, &p.Rank); err != nil {
			return nil, sqldb.WrapErr(err, sqldb.ExecuteFailed, "scanning peer row")
		}
		p.NextAttempt = time.Unix(next, 0).UTC()
		out = append(out, p)
	}
	if err = rows.Err(); err != nil {
		return nil, sqldb.WrapErr(err, sqldb.ExecuteFailed, "loading peers")
	}
	return out, nil
}

// StorePeer updates |p|, inserting it if it doesn't yet exist.
func StorePeer(db *sqldb.DB, p *PeerRecord) error {
	var updated, err = updatePeer(db, p)
	if err != nil || updated {
		return err
	}
	return insertPeer(db, p)
}

func updatePeer(db *sqldb.DB, p *PeerRecord) (_ bool, err error) {
	defer db.UpdateTimer(peerEntity).ObserveDuration()
	defer func() { countQuery("update", err) }()

	var st *sqldb.StmtToken
	if st, err = db.PreparedStatement(updatePeerSQL); err != nil {
		return false, err
	}
	var res sql.Result
	if res, err = st.Exec(p.NextAttempt.Unix(), p.NumFailures, p.Rank, p.IP, p.Port); err != nil {
		return false, err
	}
	var n int64
	if n, err = res.RowsAffected(); err != nil {
		return false, sqldb.WrapErr(err, sqldb.ExecuteFailed,
			"updating peer %s:%d", p.IP, p.Port)
	}
	return n != 0, nil
}

func insertPeer(db *sqldb.DB, p *PeerRecord) (err error) {
	defer db.InsertTimer(peerEntity).ObserveDuration()
	defer func() { countQuery("insert", err) }()

	var st *sqldb.StmtToken
	if st, err = db.PreparedStatement(insertPeerSQL); err != nil {
		return err
	}
	_, err = st.Exec(p.IP, p.Port, p.NextAttempt.Unix(), p.NumFailures, p.Rank)
	return err
}

func countQuery(op string, err error) {
	var status = metrics.Ok
	if err != nil {
		status = metrics.Fail
	}
	metrics.DatabaseQueriesTotal.WithLabelValues(op, peerEntity, status).Inc()
}
