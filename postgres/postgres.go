package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	sdk "github.com/dbkit-project/sdk"
	"github.com/dbkit-project/sdk/backend"
	"github.com/dbkit-project/sdk/resultset"
	"github.com/dbkit-project/sdk/statement"
)

// Config controls how a Conn interacts with the PostgreSQL server.
type Config struct {
	// SDKConfig provides shared runtime settings forwarded to the engines.
	SDKConfig sdk.RuntimeConfig
	// MaxConns caps the pool size. Zero selects the default of 5.
	MaxConns int32
}

// Conn is a PostgreSQL backend built on a pgx connection pool.
type Conn struct {
	pool    *pgxpool.Pool
	runtime sdk.RuntimeConfig
}

// Connect opens a connection pool against the server named by dsn and
// verifies it with a ping.
func Connect(ctx context.Context, dsn string, config Config) (*Conn, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", errors.Join(sdk.ErrExecution, err))
	}

	cfg.MaxConns = config.MaxConns
	if cfg.MaxConns == 0 {
		cfg.MaxConns = 5
	}
	cfg.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", errors.Join(sdk.ErrExecution, err))
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", errors.Join(sdk.ErrExecution, err))
	}

	config.SDKConfig.Log().Debug("postgres pool opened", "database", cfg.ConnConfig.Database)
	return &Conn{pool: pool, runtime: config.SDKConfig}, nil
}

// Prepare compiles query into a server-side prepared statement. The
// statement pins one pooled connection until it is closed.
func (c *Conn) Prepare(ctx context.Context, query string) (*statement.Statement, error) {
	pc, err := c.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire: %w", errors.Join(sdk.ErrExecution, err))
	}

	name := "dbkit_" + uuid.NewString()
	sd, err := pc.Conn().Prepare(ctx, name, query)
	if err != nil {
		pc.Release()
		return nil, fmt.Errorf("prepare: %w", errors.Join(sdk.ErrExecution, err))
	}
	c.runtime.Log().Debug("statement prepared", "name", name, "params", len(sd.ParamOIDs))

	del := &stmt{
		ctx:    ctx,
		conn:   pc,
		name:   name,
		params: make([]any, len(sd.ParamOIDs)),
	}
	return statement.New(del, statement.Config{SDKConfig: c.runtime})
}

// Exec runs a statement that returns no rows and reports the number of rows
// it affected.
func (c *Conn) Exec(ctx context.Context, query string) (int64, error) {
	tag, err := c.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("exec: %w", errors.Join(sdk.ErrExecution, err))
	}
	return tag.RowsAffected(), nil
}

// Query runs a statement and returns a ResultSet over its rows.
func (c *Conn) Query(ctx context.Context, query string) (*resultset.ResultSet, error) {
	rows, err := c.pool.Query(ctx, query, textFormat)
	if err != nil {
		return nil, fmt.Errorf("query: %w", errors.Join(sdk.ErrExecution, err))
	}
	return resultset.New(newCursor(rows), resultset.Config{SDKConfig: c.runtime})
}

// Ping verifies the pool can still reach the server.
func (c *Conn) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// Close shuts the pool down.
func (c *Conn) Close() error {
	c.pool.Close()
	return nil
}

// textFormat forces text-format results so every column reaches the value
// codec as its canonical string rendering, independent of the column's OID.
var textFormat = pgx.QueryResultFormats{pgx.TextFormatCode}

// stmt implements backend.Statement over a named server-side statement on a
// pinned pool connection.
type stmt struct {
	ctx    context.Context
	conn   *pgxpool.Conn
	name   string
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
	tag, err := s.conn.Conn().Exec(s.ctx, s.name, s.params...)
	if err != nil {
		return err
	}
	s.rows = tag.RowsAffected()
	return nil
}

func (s *stmt) Query() (backend.Cursor, error) {
	args := make([]any, 0, len(s.params)+1)
	args = append(args, textFormat)
	args = append(args, s.params...)
	rows, err := s.conn.Conn().Query(s.ctx, s.name, args...)
	if err != nil {
		return nil, err
	}
	s.rows = 0
	return newCursor(rows), nil
}

func (s *stmt) RowsChanged() int64 { return s.rows }

// Close deallocates the server-side statement and returns its connection to
// the pool.
func (s *stmt) Close() error {
	err := s.conn.Conn().Deallocate(s.ctx, s.name)
	s.conn.Release()
	return err
}

// cursor implements backend.Cursor over pgx.Rows. RawValues exposes the
// driver's row buffer, which pgx reuses between rows; that is exactly the
// validity window the resultset engine promises.
type cursor struct {
	rows pgx.Rows
	cols []string
	raw  [][]byte
}

var _ backend.Cursor = (*cursor)(nil)

func newCursor(rows pgx.Rows) *cursor {
	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}
	return &cursor{rows: rows, cols: cols}
}

func (c *cursor) Next() (bool, error) {
	if !c.rows.Next() {
		return false, c.rows.Err()
	}
	c.raw = c.rows.RawValues()
	return true, nil
}

func (c *cursor) ColumnCount() int { return len(c.cols) }

func (c *cursor) ColumnName(index int) string { return c.cols[index] }

func (c *cursor) ColumnSize(index int) (int64, error) {
	if c.raw == nil {
		return 0, errors.New("cursor is not positioned on a row")
	}
	return int64(len(c.raw[index])), nil
}

func (c *cursor) Value(index int) (backend.Value, error) {
	if c.raw == nil {
		return backend.Value{}, errors.New("cursor is not positioned on a row")
	}
	raw := c.raw[index]
	return backend.Value{Data: raw, Null: raw == nil}, nil
}

func (c *cursor) Close() error {
	c.rows.Close()
	return c.rows.Err()
}
