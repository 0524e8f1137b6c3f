// Package ledger defines the persisted ledger entities — accounts, trust
// lines, offers, ledger headers, and transaction history — as collaborators
// of the sqldb façade. Each entity implements sqldb.Schema and exposes
// typed load/store operations over the façade's prepared statements, timed
// into the database metric family.
package ledger

import "go.lumend.dev/core/metrics"

// Entity names, as they appear in metric and log labels.
const (
	accountEntity   = "account"
	trustLineEntity = "trustline"
	offerEntity     = "offer"
	headerEntity    = "ledgerheader"
	txEntity        = "txhistory"
)

func countQuery(op, entity string, err error) {
	var status = metrics.Ok
	if err != nil {
		status = metrics.Fail
	}
	metrics.DatabaseQueriesTotal.WithLabelValues(op, entity, status).Inc()
}

// AccountID is the strkey-form text encoding of an account's public key.
type AccountID string

// Asset identifies the native asset (the zero Asset), or a credit asset
// issued by an account.
type Asset struct {
	Code   string
	Issuer AccountID
}

// NativeAsset is the network's native asset.
var NativeAsset = Asset{}

// IsNative returns whether this is the native asset.
func (a Asset) IsNative() bool { return a.Code == "" }

func (a Asset) String() string {
	if a.IsNative() {
		return "native"
	}
	return a.Code + "/" + string(a.Issuer)
}
