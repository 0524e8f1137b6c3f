package ledger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"go.lumend.dev/core/sqldb"
)

const (
	accountA = AccountID("GA7QYNF7SOWQ3GLR2BGMZEHXAVIRZA4KVWLTJJFC7MGXUA74P7UJVSGZ")
	accountB = AccountID("GB6NVEN5HSUBKMYCE5ZOWSK5K23TBWRUQLZY3KNMXUZ3AQ2ESC4MY4AQ")
	issuerC  = AccountID("GC23QF2HUE52AMXUFUH3AYJAXXGXXV2VHXYYR6EYXETPKDXZSAW67XO4")
)

func openTestDB(t *testing.T) *sqldb.DB {
	var db, err = sqldb.Open(sqldb.Config{
		ConnectionString: "sqlite3://" + filepath.Join(t.TempDir(), "ledger.db"),
		Schemas: []sqldb.Schema{
			AccountSchema{},
			OfferSchema{},
			TrustLineSchema{},
			LedgerHeaderSchema{},
			TxHistorySchema{},
		},
	})
	require.NoError(t, err)
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { _ = db.Close() })
	return db
}
