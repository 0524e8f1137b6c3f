package ledger

import (
	"encoding/base64"

	"go.lumend.dev/core/sqldb"
)

// Transaction is one applied transaction of a closed ledger. Body is the
// serialized transaction envelope, stored base64-encoded.
type Transaction struct {
	ID        string
	LedgerSeq uint32
	Index     int32
	Body      []byte
}

const (
	createTxHistorySQL = `
CREATE TABLE txhistory (
	txid      TEXT   NOT NULL,
	ledgerseq BIGINT NOT NULL CHECK (ledgerseq >= 0),
	txindex   INT    NOT NULL,
	body      TEXT   NOT NULL,
	PRIMARY KEY (ledgerseq, txindex)
)`
	createTxHistoryIndexSQL = `CREATE INDEX txhistory_txid ON txhistory (txid)`
	dropTxHistorySQL        = `DROP TABLE IF EXISTS txhistory`

	insertTxSQL = `INSERT INTO txhistory (txid, ledgerseq, txindex, body) VALUES ($1, $2, $3, $4)`
	selectTxSQL = `SELECT txid, txindex, body FROM txhistory WHERE ledgerseq = $1 ORDER BY txindex`
)

// TxHistorySchema implements sqldb.Schema for the txhistory table.
type TxHistorySchema struct{}

var _ sqldb.Schema = TxHistorySchema{}

func (TxHistorySchema) Name() string { return txEntity }

func (TxHistorySchema) DropAll(db *sqldb.DB) error {
	var _, err = db.Session().Exec(dropTxHistorySQL)
	return err
}

func (TxHistorySchema) CreateAll(db *sqldb.DB) error {
	var _, err = db.Session().Exec(createTxHistorySQL)
	if err == nil {
		_, err = db.Session().Exec(createTxHistoryIndexSQL)
	}
	return err
}

// StoreTransaction appends |tx| to the history of its ledger.
func StoreTransaction(db *sqldb.DB, tx *Transaction) (err error) {
	defer db.InsertTimer(txEntity).ObserveDuration()
	defer func() { countQuery("insert", txEntity, err) }()

	var st *sqldb.StmtToken
	if st, err = db.PreparedStatement(insertTxSQL); err != nil {
		return err
	}
	_, err = st.Exec(tx.ID, int64(tx.LedgerSeq), tx.Index,
		base64.StdEncoding.EncodeToString(tx.Body))
	return err
}

// LoadTransactionsByLedger fetches all transactions of ledger |seq|, in
// application order.
func LoadTransactionsByLedger(db *sqldb.DB, seq uint32) (_ []Transaction, err error) {
	defer db.SelectTimer(txEntity).ObserveDuration()
	defer func() { countQuery("select", txEntity, err) }()

	var st *sqldb.StmtToken
	if st, err = db.PreparedStatement(selectTxSQL); err != nil {
		return nil, err
	}
	var rows, rErr = st.QueryRows(int64(seq))
	if rErr != nil {
		err = rErr
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var tx = Transaction{LedgerSeq: seq}
		var body string
		if err = rows.Scan(&tx.ID, &tx.Index, &body); err != nil {
			return nil, sqldb.WrapErr(err, sqldb.ExecuteFailed,
				"scanning transaction of ledger %d", seq)
		}
		if tx.Body, err = base64.StdEncoding.DecodeString(body); err != nil {
			return nil, sqldb.WrapErr(err, sqldb.ExecuteFailed,
				"decoding transaction %s", tx.ID)
		}
		out = append(out, tx)
	}
	if err = rows.Err(); err != nil {
		return nil, sqldb.WrapErr(err, sqldb.ExecuteFailed,
			"loading transactions of ledger %d", seq)
	}
	return out, nil
}
