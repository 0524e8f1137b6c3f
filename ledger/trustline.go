package ledger

import (
	"database/sql"

	"go.lumend.dev/core/sqldb"
)

// TrustLineAuthorizedFlag marks a trust line whose issuer has authorized
// the holder to transact in the asset.
const TrustLineAuthorizedFlag uint32 = 1

// TrustLine is a holder's line of trust in a non-native asset.
type TrustLine struct {
	Account AccountID
	Asset   Asset
	Limit   int64
	Balance int64
	Flags   uint32
}

// Authorized returns whether the issuer has authorized this trust line.
func (tl *TrustLine) Authorized() bool {
	return tl.Flags&TrustLineAuthorizedFlag != 0
}

const (
	createTrustLinesSQL = `
CREATE TABLE trustlines (
	accountid TEXT   NOT NULL,
	issuer    TEXT   NOT NULL,
	assetcode TEXT   NOT NULL,
	tlimit    BIGINT NOT NULL CHECK (tlimit >= 0),
	balance   BIGINT NOT NULL CHECK (balance >= 0),
	flags     INT    NOT NULL,
	PRIMARY KEY (accountid, issuer, assetcode)
)`
	dropTrustLinesSQL = `DROP TABLE IF EXISTS trustlines`

	selectTrustLineSQL = `SELECT tlimit, balance, flags FROM trustlines ` +
		`WHERE accountid = $1 AND issuer = $2 AND assetcode = $3`
	insertTrustLineSQL = `INSERT INTO trustlines (accountid, issuer, assetcode, tlimit, balance, flags) ` +
		`VALUES ($1, $2, $3, $4, $5, $6)`
	updateTrustLineSQL = `UPDATE trustlines SET tlimit = $1, balance = $2, flags = $3 ` +
		`WHERE accountid = $4 AND issuer = $5 AND assetcode = $6`
	deleteTrustLineSQL = `DELETE FROM trustlines WHERE accountid = $1 AND issuer = $2 AND assetcode = $3`
)

// TrustLineSchema implements sqldb.Schema for the trustlines table.
type TrustLineSchema struct{}

var _ sqldb.Schema = TrustLineSchema{}

func (TrustLineSchema) Name() string { return trustLineEntity }

func (TrustLineSchema) DropAll(db *sqldb.DB) error {
	var _, err = db.Session().Exec(dropTrustLinesSQL)
	return err
}

func (TrustLineSchema) CreateAll(db *sqldb.DB) error {
	var _, err = db.Session().Exec(createTrustLinesSQL)
	return err
}

// LoadTrustLine fetches |id|'s trust line for |asset|. Absence is not an
// error: it returns a nil TrustLine and a nil error.
func LoadTrustLine(db *sqldb.DB, id AccountID, asset Asset) (_ *TrustLine, err error) {
	defer db.SelectTimer(trustLineEntity).ObserveDuration()
	defer func() { countQuery("select", trustLineEntity, err) }()

	var st *sqldb.StmtToken
	if st, err = db.PreparedStatement(selectTrustLineSQL); err != nil {
		return nil, err
	}
	var tl = TrustLine{Account: id, Asset: asset}
	err = st.QueryRow(string(id), string(asset.Issuer), asset.Code).
		Scan(&tl.Limit, &tl.Balance, &tl.Flags)

	if err == sql.ErrNoRows {
		err = nil
		return nil, nil
	} else if err != nil {
		return nil, sqldb.WrapErr(err, sqldb.ExecuteFailed,
			"loading trust line %s of %s", tl.Asset, id)
	}
	return &tl, nil
}

// StoreTrustLine updates |tl|, inserting it if it doesn't yet exist.
func StoreTrustLine(db *sqldb.DB, tl *TrustLine) error {
	var updated, err = updateTrustLine(db, tl)
	if err != nil || updated {
		return err
	}
	return insertTrustLine(db, tl)
}

func updateTrustLine(db *sqldb.DB, tl *TrustLine) (_ bool, err error) {
	defer db.UpdateTimer(trustLineEntity).ObserveDuration()
	defer func() { countQuery("update", trustLineEntity, err) }()

	var st *sqldb.StmtToken
	if st, err = db.PreparedStatement(updateTrustLineSQL); err != nil {
		return false, err
	}
	var res sql.Result
	if res, err = st.Exec(tl.Limit, tl.Balance, tl.Flags,
		string(tl.Account), string(tl.Asset.Issuer), tl.Asset.Code); err != nil {
		return false, err
	}
	var n int64
	if n, err = res.RowsAffected(); err != nil {
		return false, sqldb.WrapErr(err, sqldb.ExecuteFailed,
			"updating trust line %s of %s", tl.Asset, tl.Account)
	}
	return n != 0, nil
}

func insertTrustLine(db *sqldb.DB, tl *TrustLine) (err error) {
	defer db.InsertTimer(trustLineEntity).ObserveDuration()
	defer func() { countQuery("insert", trustLineEntity, err) }()

	var st *sqldb.StmtToken
	if st, err = db.PreparedStatement(insertTrustLineSQL); err != nil {
		return err
	}
	_, err = st.Exec(string(tl.Account), string(tl.Asset.Issuer), tl.Asset.Code,
		tl.Limit, tl.Balance, tl.Flags)
	return err
}

// DeleteTrustLine removes |id|'s trust line for |asset|, if present.
func DeleteTrustLine(db *sqldb.DB, id AccountID, asset Asset) (err error) {
	defer db.DeleteTimer(trustLineEntity).ObserveDuration()
	defer func() { countQuery("delete", trustLineEntity, err) }()

	var st *sqldb.StmtToken
	if st, err = db.PreparedStatement(deleteTrustLineSQL); err != nil {
		return err
	}
	_, err = st.Exec(string(id), string(asset.Issuer), asset.Code)
	return err
}
