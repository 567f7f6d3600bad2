// Package db holds the collector's local sqlite state: raw fetch
// snapshots keyed by (kind, day) and the ledger of collected months.
package db

import (
	_ "embed"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string
