package ledger

import (
	"database/sql"

	"go.lumend.dev/core/sqldb"
)

// Account is the ledger account entity.
type Account struct {
	ID            AccountID
	Balance       int64
	SeqNum        int64
	NumSubEntries uint32
	InflationDest AccountID
	Thresholds    string
	Flags         uint32
}

const (
	createAccountsSQL = `
CREATE TABLE accounts (
	accountid     TEXT    PRIMARY KEY NOT NULL,
	balance       BIGINT  NOT NULL CHECK (balance >= 0),
	seqnum        BIGINT  NOT NULL,
	numsubentries INT     NOT NULL CHECK (numsubentries >= 0),
	inflationdest TEXT    NOT NULL,
	thresholds    TEXT    NOT NULL,
	flags         INT     NOT NULL
)`
	dropAccountsSQL = `DROP TABLE IF EXISTS accounts`

	selectAccountSQL = `SELECT balance, seqnum, numsubentries, inflationdest, thresholds, flags ` +
		`FROM accounts WHERE accountid = $1`
	insertAccountSQL = `INSERT INTO accounts (accountid, balance, seqnum, numsubentries, inflationdest, thresholds, flags) ` +
		`VALUES ($1, $2, $3, $4, $5, $6, $7)`
	updateAccountSQL = `UPDATE accounts SET balance = $1, seqnum = $2, numsubentries = $3, ` +
		`inflationdest = $4, thresholds = $5, flags = $6 WHERE accountid = $7`
	deleteAccountSQL = `DELETE FROM accounts WHERE accountid = $1`
)

// AccountSchema implements sqldb.Schema for the accounts table.
type AccountSchema struct{}

var _ sqldb.Schema = AccountSchema{}

func (AccountSchema) Name() string { return accountEntity }

func (AccountSchema) DropAll(db *sqldb.DB) error {
	var _, err = db.Session().Exec(dropAccountsSQL)
	return err
}

func (AccountSchema) CreateAll(db *sqldb.DB) error {
	var _, err = db.Session().Exec(createAccountsSQL)
	return err
}

// LoadAccount fetches the account having |id|. Absence is not an error:
// it returns a nil Account and a nil error.
func LoadAccount(db *sqldb.DB, id AccountID) (_ *Account, err error) {
	defer db.SelectTimer(accountEntity).ObserveDuration()
	defer func() { countQuery("select", accountEntity, err) }()

	var st *sqldb.StmtToken
	if st, err = db.PreparedStatement(selectAccountSQL); err != nil {
		return nil, err
	}
	var a = Account{ID: id}
	err = st.QueryRow(string(id)).Scan(&a.Balance, &a.SeqNum,
		&a.NumSubEntries, &a.InflationDest, &a.Thresholds, &a.Flags)

	if err == sql.ErrNoRows {
		err = nil
		return nil, nil
	} else if err != nil {
		return nil, sqldb.WrapErr(err, sqldb.ExecuteFailed, "loading account %s", id)
	}
	return &a, nil
}

// StoreAccount updates |a|, inserting it if it doesn't yet exist.
func StoreAccount(db *sqldb.DB, a *Account) error {
	var updated, err = updateAccount(db, a)
	if err != nil || updated {
		return err
	}
	return insertAccount(db, a)
}

func updateAccount(db *sqldb.DB, a *Account) (_ bool, err error) {
	defer db.UpdateTimer(accountEntity).ObserveDuration()
	defer func() { countQuery("update", accountEntity, err) }()

	var st *sqldb.StmtToken
	if st, err = db.PreparedStatement(updateAccountSQL); err != nil {
		return false, err
	}
	var res sql.Result
	if res, err = st.Exec(a.Balance, a.SeqNum, a.NumSubEntries,
		string(a.InflationDest), a.Thresholds, a.Flags, string(a.ID)); err != nil {
		return false, err
	}
	var n int64
	if n, err = res.RowsAffected(); err != nil {
		return false, sqldb.WrapErr(err, sqldb.ExecuteFailed, "updating account %s", a.ID)
	}
	return n != 0, nil
}

func insertAccount(db *sqldb.DB, a *Account) (err error) {
	defer db.InsertTimer(accountEntity).ObserveDuration()
	defer func() { countQuery("insert", accountEntity, err) }()

	var st *sqldb.StmtToken
	if st, err = db.PreparedStatement(insertAccountSQL); err != nil {
		return err
	}
	_, err = st.Exec(string(a.ID), a.Balance, a.SeqNum, a.NumSubEntries,
		string(a.InflationDest), a.Thresholds, a.Flags)
	return err
}

// DeleteAccount removes the account having |id|, if present.
func DeleteAccount(db *sqldb.DB, id AccountID) (err error) {
	defer db.DeleteTimer(accountEntity).ObserveDuration()
	defer func() { countQuery("delete", accountEntity, err) }()

	var st *sqldb.StmtToken
	if st, err = db.PreparedStatement(deleteAccountSQL); err != nil {
		return err
	}
	_, err = st.Exec(string(id))
	return err
}
