package sqlite

import (
	_ "github.com/mattn/go-sqlite3"

	"github.com/dbkit-project/sdk/stdsql"
)

// Open opens the SQLite database stored at path. Use ":memory:" for a
// transient in-memory database.
func Open(path string, config stdsql.Config) (*stdsql.Conn, error) {
	return stdsql.Open("sqlite3", path, config)
}
