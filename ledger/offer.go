package ledger

import (
	"database/sql"

	"go.lumend.dev/core/sqldb"
)

// Offer is a standing order to exchange |Amount| of |Selling| for |Buying|
// at price PriceN/PriceD.
type Offer struct {
	OfferID int64
	Owner   AccountID
	Selling Asset
	Buying  Asset
	Amount  int64
	PriceN  int32
	PriceD  int32
	Flags   uint32
}

const (
	createOffersSQL = `
CREATE TABLE offers (
	offerid       BIGINT PRIMARY KEY NOT NULL,
	ownerid       TEXT   NOT NULL,
	sellingcode   TEXT   NOT NULL,
	sellingissuer TEXT   NOT NULL,
	buyingcode    TEXT   NOT NULL,
	buyingissuer  TEXT   NOT NULL,
	amount        BIGINT NOT NULL CHECK (amount >= 0),
	pricen        INT    NOT NULL,
	priced        INT    NOT NULL,
	flags         INT    NOT NULL
)`
	createOffersIndexSQL = `CREATE INDEX offers_owner ON offers (ownerid)`
	dropOffersSQL        = `DROP TABLE IF EXISTS offers`

	selectOfferSQL = `SELECT ownerid, sellingcode, sellingissuer, buyingcode, buyingissuer, ` +
		`amount, pricen, priced, flags FROM offers WHERE offerid = $1`
	insertOfferSQL = `INSERT INTO offers (offerid, ownerid, sellingcode, sellingissuer, ` +
		`buyingcode, buyingissuer, amount, pricen, priced, flags) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	updateOfferSQL = `UPDATE offers SET amount = $1, pricen = $2, priced = $3, flags = $4 WHERE offerid = $5`
	deleteOfferSQL = `DELETE FROM offers WHERE offerid = $1`
)

// OfferSchema implements sqldb.Schema for the offers table.
type OfferSchema struct{}

var _ sqldb.Schema = OfferSchema{}

func (OfferSchema) Name() string { return offerEntity }

func (OfferSchema) DropAll(db *sqldb.DB) error {
	var _, err = db.Session().Exec(dropOffersSQL)
	return err
}

func (OfferSchema) CreateAll(db *sqldb.DB) error {
	var _, err = db.Session().Exec(createOffersSQL)
	if err == nil {
		_, err = db.Session().Exec(createOffersIndexSQL)
	}
	return err
}

// LoadOffer fetches the offer having |offerID|. Absence is not an error:
// it returns a nil Offer and a nil error.
func LoadOffer(db *sqldb.DB, offerID int64) (_ *Offer, err error) {
	defer db.SelectTimer(offerEntity).ObserveDuration()
	defer func() { countQuery("select", offerEntity, err) }()

	var st *sqldb.StmtToken
	if st, err = db.PreparedStatement(selectOfferSQL); err != nil {
		return nil, err
	}
	var o = Offer{OfferID: offerID}
	err = st.QueryRow(offerID).Scan(&o.Owner, &o.Selling.Code, &o.Selling.Issuer,
		&o.Buying.Code, &o.Buying.Issuer, &o.Amount, &o.PriceN, &o.PriceD, &o.Flags)

	if err == sql.ErrNoRows {
		err = nil
		return nil, nil
	} else if err != nil {
		return nil, sqldb.WrapErr(err, sqldb.ExecuteFailed, "loading offer %d", offerID)
	}
	return &o, nil
}

// StoreOffer updates |o|, inserting it if it doesn't yet exist.
func StoreOffer(db *sqldb.DB, o *Offer) error {
	var updated, err = updateOffer(db, o)
	if err != nil || updated {
		return err
	}
	return insertOffer(db, o)
}

func updateOffer(db *sqldb.DB, o *Offer) (_ bool, err error) {
	defer db.UpdateTimer(offerEntity).ObserveDuration()
	defer func() { countQuery("update", offerEntity, err) }()

	var st *sqldb.StmtToken
	if st, err = db.PreparedStatement(updateOfferSQL); err != nil {
		return false, err
	}
	var res sql.Result
	if res, err = st.Exec(o.Amount, o.PriceN, o.PriceD, o.Flags, o.OfferID); err != nil {
		return false, err
	}
	var n int64
	if n, err = res.RowsAffected(); err != nil {
		return false, sqldb.WrapErr(err, sqldb.ExecuteFailed, "updating offer %d", o.OfferID)
	}
	return n != 0, nil
}

func insertOffer(db *sqldb.DB, o *Offer) (err error) {
	defer db.InsertTimer(offerEntity).ObserveDuration()
	defer func() { countQuery("insert", offerEntity, err) }()

	var st *sqldb.StmtToken
	if st, err = db.PreparedStatement(insertOfferSQL); err != nil {
		return err
	}
	_, err = st.Exec(o.OfferID, string(o.Owner), o.Selling.Code, string(o.Selling.Issuer),
		o.Buying.Code, string(o.Buying.Issuer), o.Amount, o.PriceN, o.PriceD, o.Flags)
	return err
}

// DeleteOffer removes the offer having |offerID|, if present.
func DeleteOffer(db *sqldb.DB, offerID int64) (err error) {
	defer db.DeleteTimer(offerEntity).ObserveDuration()
	defer func() { countQuery("delete", offerEntity, err) }()

	var st *sqldb.StmtToken
	if st, err = db.PreparedStatement(deleteOfferSQL); err != nil {
		return err
	}
	_, err = st.Exec(offerID)
	return err
}
