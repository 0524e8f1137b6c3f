package ledger

import "go.lumend.dev/core/sqldb"

// GetBalance returns the funded balance of |id| in |asset|, composing the
// account and trust-line loaders. For the native asset it is the account's
// balance; for a credit asset it is the trust-line balance when the trust
// line exists and is authorized. Absence of the account or trust line is
// not an error and yields 0.
func GetBalance(db *sqldb.DB, id AccountID, asset Asset) (int64, error) {
	if asset.IsNative() {
		var acc, err = LoadAccount(db, id)
		if err != nil || acc == nil {
			return 0, err
		}
		return acc.Balance, nil
	}

	var tl, err = LoadTrustLine(db, id, asset)
	if err != nil || tl == nil {
		return 0, err
	}
	if !tl.Authorized() {
		return 0, nil
	}
	return tl.Balance, nil
}
