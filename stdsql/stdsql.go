package stdsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sdk "github.com/dbkit-project/sdk"
	"github.com/dbkit-project/sdk/backend"
	"github.com/dbkit-project/sdk/resultset"
	"github.com/dbkit-project/sdk/statement"
)

// Config controls how a Conn interacts with the wrapped database handle.
type Config struct {
	// SDKConfig provides shared runtime settings forwarded to the engines.
	SDKConfig sdk.RuntimeConfig
}

// Conn adapts a database/sql handle to the SDK's uniform API. Pooling,
// reconnection and idle management stay inside database/sql.
type Conn struct {
	db      *sql.DB
	runtime sdk.RuntimeConfig
}

// Open opens a database through a registered database/sql driver and wraps
// it in a Conn. The driver must use ordinal `?` placeholders.
func Open(driverName, dsn string, config Config) (*Conn, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, errors.Join(sdk.ErrExecution, err))
	}
	config.SDKConfig.Log().Debug("database opened", "driver", driverName)
	return &Conn{db: db, runtime: config.SDKConfig}, nil
}

// Wrap adapts an already opened database handle.
func Wrap(db *sql.DB, config Config) *Conn {
	return &Conn{db: db, runtime: config.SDKConfig}
}

// Prepare compiles query into a prepared Statement. ctx scopes every later
// execution of the statement.
func (c *Conn) Prepare(ctx context.Context, query string) (*statement.Statement, error) {
	st, err := c.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("prepare: %w", errors.Join(sdk.ErrExecution, err))
	}
	del := &stmt{
		ctx:    ctx,
		st:     st,
		params: make([]any, countPlaceholders(query)),
	}
	return statement.New(del, statement.Config{SDKConfig: c.runtime})
}

// Exec runs a statement that returns no rows and reports the number of rows
// it affected.
func (c *Conn) Exec(ctx context.Context, query string) (int64, error) {
	res, err := c.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("exec: %w", errors.Join(sdk.ErrExecution, err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		// Some drivers cannot report affected rows; treat that as zero.
		return 0, nil
	}
	return n, nil
}

// Query runs a statement and returns a ResultSet over its rows.
func (c *Conn) Query(ctx context.Context, query string) (*resultset.ResultSet, error) {
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", errors.Join(sdk.ErrExecution, err))
	}
	cur, err := newCursor(rows)
	if err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("query: %w", errors.Join(sdk.ErrExecution, err))
	}
	return resultset.New(cur, resultset.Config{SDKConfig: c.runtime})
}

// Close releases the database handle.
func (c *Conn) Close() error {
	return c.db.Close()
}

// stmt implements backend.Statement over *sql.Stmt.
type stmt struct {
	ctx    context.Context
	st     *sql.Stmt
	params []any
	rows   int64
}

var _ backend.Statement = (*stmt)(nil)

func (s *stmt) ParameterCount() int { return len(s.params) }

func (s *stmt) BindString(index int, v string) error       { return s.bind(index, v) }
func (s *stmt) BindInt64(index int, v int64) error         { return s.bind(index, v) }
func (s *stmt) BindUint64(index int, v uint64) error       { return s.bind(index, v) }
func (s *stmt) BindFloat64(index int, v float64) error     { return s.bind(index, v) }
func (s *stmt) BindBlob(index int, v []byte) error         { return s.bind(index, v) }
func (s *stmt) BindTimestamp(index int, v time.Time) error { return s.bind(index, v) }

func (s *stmt) bind(index int, v any) error {
	if index < 0 || index >= len(s.params) {
		return fmt.Errorf("parameter index %d outside [1, %d]: %w", index+1, len(s.params), sdk.ErrRange)
	}
	s.params[index] = v
	return nil
}

func (s *stmt) Exec() error {
	res, err := s.st.ExecContext(s.ctx, s.params...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil {
		s.rows = n
	} else {
		s.rows = 0
	}
	return nil
}

func (s *stmt) Query() (backend.Cursor, error) {
	rows, err := s.st.QueryContext(s.ctx, s.params...)
	if err != nil {
		return nil, err
	}
	s.rows = 0
	cur, err := newCursor(rows)
	if err != nil {
		_ = rows.Close()
		return nil, err
	}
	return cur, nil
}

func (s *stmt) RowsChanged() int64 { return s.rows }

func (s *stmt) Close() error { return s.st.Close() }

// cursor implements backend.Cursor over *sql.Rows. Rows are scanned into
// sql.RawBytes, whose storage database/sql reuses between rows; that is
// exactly the validity window the resultset engine promises.
type cursor struct {
	rows *sql.Rows
	cols []string
	raw  []sql.RawBytes
	dest []any
}

var _ backend.Cursor = (*cursor)(nil)

func newCursor(rows *sql.Rows) (*cursor, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	c := &cursor{
		rows: rows,
		cols: cols,
		raw:  make([]sql.RawBytes, len(cols)),
		dest: make([]any, len(cols)),
	}
	for i := range c.raw {
		c.dest[i] = &c.raw[i]
	}
	return c, nil
}

func (c *cursor) Next() (bool, error) {
	if !c.rows.Next() {
		return false, c.rows.Err()
	}
	if err := c.rows.Scan(c.dest...); err != nil {
		return false, err
	}
	return true, nil
}

func (c *cursor) ColumnCount() int { return len(c.cols) }

func (c *cursor) ColumnName(index int) string { return c.cols[index] }

func (c *cursor) ColumnSize(index int) (int64, error) {
	return int64(len(c.raw[index])), nil
}

func (c *cursor) Value(index int) (backend.Value, error) {
	rb := c.raw[index]
	return backend.Value{Data: []byte(rb), Null: rb == nil}, nil
}

func (c *cursor) Close() error { return c.rows.Close() }

// countPlaceholders reports the number of ordinal `?` placeholders in
// query, ignoring question marks inside quoted literals and identifiers.
func countPlaceholders(query string) int {
	n := 0
	var quote byte
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
		case ch == '?':
			n++
		}
	}
	return n
}
