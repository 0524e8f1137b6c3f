package ledger

import (
	"database/sql"
	"encoding/base64"

	"go.lumend.dev/core/sqldb"
)

// LedgerHeader is the closed-ledger header entity. Data is the serialized
// header body, stored base64-encoded so the column type is portable across
// backends.
type LedgerHeader struct {
	Hash      string
	PrevHash  string
	Seq       uint32
	CloseTime int64
	Data      []byte
}

const (
	createHeadersSQL = `
CREATE TABLE ledgerheaders (
	ledgerhash TEXT   PRIMARY KEY NOT NULL,
	prevhash   TEXT   NOT NULL,
	ledgerseq  BIGINT NOT NULL UNIQUE CHECK (ledgerseq >= 0),
	closetime  BIGINT NOT NULL CHECK (closetime >= 0),
	data       TEXT   NOT NULL
)`
	dropHeadersSQL = `DROP TABLE IF EXISTS ledgerheaders`

	selectHeaderSQL = `SELECT ledgerhash, prevhash, closetime, data ` +
		`FROM ledgerheaders WHERE ledgerseq = $1`
	insertHeaderSQL = `INSERT INTO ledgerheaders (ledgerhash, prevhash, ledgerseq, closetime, data) ` +
		`VALUES ($1, $2, $3, $4, $5)`
)

// LedgerHeaderSchema implements sqldb.Schema for the ledgerheaders table.
type LedgerHeaderSchema struct{}

var _ sqldb.Schema = LedgerHeaderSchema{}

func (LedgerHeaderSchema) Name() string { return headerEntity }

func (LedgerHeaderSchema) DropAll(db *sqldb.DB) error {
	var _, err = db.Session().Exec(dropHeadersSQL)
	return err
}

func (LedgerHeaderSchema) CreateAll(db *sqldb.DB) error {
	var _, err = db.Session().Exec(createHeadersSQL)
	return err
}

// LoadLedgerHeader fetches the header of ledger |seq|. Absence is not an
// error: it returns a nil LedgerHeader and a nil error.
func LoadLedgerHeader(db *sqldb.DB, seq uint32) (_ *LedgerHeader, err error) {
	defer db.SelectTimer(headerEntity).ObserveDuration()
	defer func() { countQuery("select", headerEntity, err) }()

	var st *sqldb.StmtToken
	if st, err = db.PreparedStatement(selectHeaderSQL); err != nil {
		return nil, err
	}
	var h = LedgerHeader{Seq: seq}
	var data string
	err = st.QueryRow(int64(seq)).Scan(&h.Hash, &h.PrevHash, &h.CloseTime, &data)

	if err == sql.ErrNoRows {
		err = nil
		return nil, nil
	} else if err != nil {
		return nil, sqldb.WrapErr(err, sqldb.ExecuteFailed, "loading ledger header %d", seq)
	}
	if h.Data, err = base64.StdEncoding.DecodeString(data); err != nil {
		return nil, sqldb.WrapErr(err, sqldb.ExecuteFailed, "decoding ledger header %d", seq)
	}
	return &h, nil
}

// StoreLedgerHeader inserts |h|. Headers are immutable once written:
// storing a duplicate hash or sequence is a constraint violation.
func StoreLedgerHeader(db *sqldb.DB, h *LedgerHeader) (err error) {
	defer db.InsertTimer(headerEntity).ObserveDuration()
	defer func() { countQuery("insert", headerEntity, err) }()

	var st *sqldb.StmtToken
	if st, err = db.PreparedStatement(insertHeaderSQL); err != nil {
		return err
	}
	_, err = st.Exec(h.Hash, h.PrevHash, int64(h.Seq), h.CloseTime,
		base64.StdEncoding.EncodeToString(h.Data))
	return err
}
