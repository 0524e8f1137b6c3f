// Package sqldb is a thin façade over database/sql used by the node to
// persist ledger entities (accounts, trust lines, offers, ledger headers,
// transactions), overlay peer records, and generic persistent state.
//
// The façade owns a single foreground Session used by the primary thread,
// and a lazily built SessionPool sized to hardware parallelism for worker
// threads. It layers a prepared-statement cache, per-entity operation
// timers, and a scoped SQL capture facility over the foreground session,
// and orchestrates one-shot schema initialization by delegating to each
// persisted entity's Schema implementation.
//
// Two backends are recognized from the connection string scheme:
//
//   - "sqlite3:<path>" selects the embedded SQLite backend. The foreground
//     session enables write-ahead journaling so readers do not block a
//     concurrent writer. The in-memory variant "sqlite3://:memory:" cannot
//     serve multiple sessions and disables pooling.
//   - Anything else is treated as PostgreSQL, and every session runs with
//     serializable transaction isolation.
//
// The foreground session, statement cache, and SQL capture are not
// synchronized: they are owned by the primary thread. Worker threads must
// lease sessions from the pool instead.
package sqldb
