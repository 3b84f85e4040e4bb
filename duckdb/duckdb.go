package duckdb

import (
	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/dbkit-project/sdk/stdsql"
)

// Open opens the DuckDB database stored at path. An empty path opens a
// transient in-memory database.
func Open(path string, config stdsql.Config) (*stdsql.Conn, error) {
	return stdsql.Open("duckdb", path, config)
}
