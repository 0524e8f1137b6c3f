package main

import (
	"github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"

	"go.lumend.dev/core/ledger"
	mbp "go.lumend.dev/core/mainboilerplate"
	"go.lumend.dev/core/overlay"
	"go.lumend.dev/core/sqldb"
	"go.lumend.dev/core/state"
)

const iniFilename = "lumend.ini"

// Config is the top-level configuration object of a lumend node.
var Config = new(struct {
	Database struct {
		Addr           string `long:"addr" env:"ADDR" default:"sqlite3://lumend.db" description:"Database connection string"`
		StatementCache int    `long:"statement-cache" env:"STATEMENT_CACHE" default:"0" description:"Prepared-statement cache cap (0 is unbounded)"`
	} `group:"Database" namespace:"db" env-namespace:"DB"`

	Log     mbp.LogConfig     `group:"Logging" namespace:"log" env-namespace:"LOG"`
	Metrics mbp.MetricsConfig `group:"Metrics" namespace:"metrics" env-namespace:"METRICS"`
})

// nodeSchemas is the fixed teardown order of the node's persisted entities.
// Dependent entities come before those they depend on.
func nodeSchemas() []sqldb.Schema {
	return []sqldb.Schema{
		ledger.AccountSchema{},
		ledger.OfferSchema{},
		ledger.TrustLineSchema{},
		overlay.PeerSchema{},
		state.PersistentState{},
		ledger.LedgerHeaderSchema{},
		ledger.TxHistorySchema{},
	}
}

type cmdInit struct{}

func (cmdInit) Execute([]string) error {
	mbp.InitLog(Config.Log)
	log.WithField("config", Config).Info("initializing database schema")

	var db, err = sqldb.Open(sqldb.Config{
		ConnectionString:   Config.Database.Addr,
		StatementCacheSize: Config.Database.StatementCache,
		Schemas:            nodeSchemas(),
	})
	mbp.Must(err, "opening database", "addr", Config.Database.Addr)
	defer db.Close()

	capture, err := db.CaptureSQL("schema-init")
	mbp.Must(err, "beginning SQL capture")
	defer capture.Release()

	return db.Initialize()
}

func main() {
	var parser = flags.NewParser(Config, flags.Default)
	parser.LongDescription = `lumend is a ledger node daemon.

Optionally configure lumend with a '` + iniFilename + `' file in the current
working directory, or with '~/.config/lumend/` + iniFilename + `'. Use the
'print-config' sub-command to inspect the tool's current configuration.
`

	var _, err = parser.AddCommand("init", "Initialize the database schema", `
init drops and recreates the schema of every persisted entity against the
configured database, then exits. All prior data is lost.
`, &cmdInit{})
	mbp.Must(err, "failed to add init command")

	mbp.AddPrintConfigCmd(parser, iniFilename)
	mbp.MustParseConfig(parser, iniFilename)
}
