package backendmock

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	sdk "github.com/dbkit-project/sdk"
	"github.com/dbkit-project/sdk/backend"
)

var (
	// ErrOperationFailed is returned when Fail is set without a custom error.
	ErrOperationFailed = errors.New("operation failed")
)

// CursorConfig represents the configuration for creating a Cursor mock.
type CursorConfig struct {
	// Columns are the projection's column names, in order.
	Columns []string

	// Rows are the scripted rows. Cell values may be nil (SQL NULL),
	// string, []byte, int, int64, uint64, float64 or time.Time; everything
	// non-nil is rendered to its text form, the way text-protocol engines
	// hand values to the SDK.
	Rows [][]any

	// FailNext makes Next return an error instead of advancing.
	FailNext bool

	// FailValue makes Value return an error.
	FailValue bool

	// Error overrides the error returned when FailNext or FailValue is set.
	Error error

	// CloseErr is returned by Close when set.
	CloseErr error
}

// Cursor is a scripted backend.Cursor for tests. The failure switches are
// plain fields and may be flipped between calls to simulate a backend that
// breaks mid-iteration.
type Cursor struct {
	// FailNext makes Next return an error instead of advancing.
	FailNext bool

	// FailValue makes Value return an error.
	FailValue bool

	// Error overrides the error returned when FailNext or FailValue is set.
	Error error

	// NextCalls counts calls to Next.
	NextCalls int

	// Closed reports whether Close has been called.
	Closed bool

	cfg CursorConfig
	pos int
}

var _ backend.Cursor = (*Cursor)(nil)

// NewCursor creates a Cursor mock based on the provided CursorConfig.
func NewCursor(config CursorConfig) (*Cursor, error) {
	for i, row := range config.Rows {
		if len(row) != len(config.Columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(config.Columns))
		}
	}
	return &Cursor{
		FailNext:  config.FailNext,
		FailValue: config.FailValue,
		Error:     config.Error,
		cfg:       config,
		pos:       -1,
	}, nil
}

// Next advances the scripted cursor.
func (c *Cursor) Next() (bool, error) {
	c.NextCalls++
	if c.FailNext {
		return false, c.failure()
	}
	if c.pos+1 >= len(c.cfg.Rows) {
		// Park past the last row; the engine never calls Next again anyway.
		c.pos = len(c.cfg.Rows)
		return false, nil
	}
	c.pos++
	return true, nil
}

// ColumnCount reports the scripted column count.
func (c *Cursor) ColumnCount() int { return len(c.cfg.Columns) }

// ColumnName returns the scripted name at index.
func (c *Cursor) ColumnName(index int) string { return c.cfg.Columns[index] }

// ColumnSize returns the byte length of the rendered value at index.
func (c *Cursor) ColumnSize(index int) (int64, error) {
	v, err := c.Value(index)
	if err != nil {
		return 0, err
	}
	return int64(len(v.Data)), nil
}

// Value returns the rendered cell at index in the current row.
func (c *Cursor) Value(index int) (backend.Value, error) {
	if c.FailValue {
		return backend.Value{}, c.failure()
	}
	if c.pos < 0 || c.pos >= len(c.cfg.Rows) {
		return backend.Value{}, errors.New("cursor is not positioned on a row")
	}
	return Render(c.cfg.Rows[c.pos][index]), nil
}

// Close records the close and returns the configured error, if any.
func (c *Cursor) Close() error {
	c.Closed = true
	return c.cfg.CloseErr
}

func (c *Cursor) failure() error {
	if c.Error != nil {
		return c.Error
	}
	return ErrOperationFailed
}

// StatementConfig represents the configuration for creating a Statement mock.
type StatementConfig struct {
	// Params is the number of placeholder parameters.
	Params int

	// BindValidator, when set, inspects every bind (0-based index).
	BindValidator func(index int, v any) error

	// Result scripts the cursor produced by Query. Each Query call creates
	// a fresh cursor from it.
	Result *CursorConfig

	// Echo makes Query return a single-row cursor whose columns c1..cN
	// carry the currently bound parameter values, like a `SELECT ?` would.
	// It takes precedence over Result.
	Echo bool

	// FailExec makes Exec return an error.
	FailExec bool

	// FailQuery makes Query return an error.
	FailQuery bool

	// NilCursor makes Query return (nil, nil), simulating a backend that
	// reports success without producing a cursor.
	NilCursor bool

	// Error overrides the error returned when FailExec or FailQuery is set.
	Error error

	// RowsChanged is reported after Exec or Query.
	RowsChanged int64

	// CloseErr is returned by Close when set.
	CloseErr error
}

// Statement is a scripted backend.Statement for tests. The failure switches
// are plain fields and may be flipped between calls.
type Statement struct {
	// FailExec makes Exec return an error.
	FailExec bool

	// FailQuery makes Query return an error.
	FailQuery bool

	// Error overrides the error returned when FailExec or FailQuery is set.
	Error error

	cfg StatementConfig

	// Bound holds the currently bound parameter values, 0-based.
	Bound []any

	// ExecCalls and QueryCalls count executions.
	ExecCalls  int
	QueryCalls int

	// Cursors lists every cursor handed out by Query, oldest first.
	Cursors []*Cursor

	// Closed reports whether Close has been called.
	Closed bool
}

var _ backend.Statement = (*Statement)(nil)

// NewStatement creates a Statement mock based on the provided StatementConfig.
func NewStatement(config StatementConfig) (*Statement, error) {
	if config.Params < 0 {
		return nil, fmt.Errorf("params must not be negative, got %d", config.Params)
	}
	return &Statement{
		FailExec:  config.FailExec,
		FailQuery: config.FailQuery,
		Error:     config.Error,
		cfg:       config,
		Bound:     make([]any, config.Params),
	}, nil
}

// ParameterCount reports the scripted parameter count.
func (s *Statement) ParameterCount() int { return s.cfg.Params }

// BindString records a string bind.
func (s *Statement) BindString(index int, v string) error { return s.bind(index, v) }

// BindInt64 records a signed integer bind.
func (s *Statement) BindInt64(index int, v int64) error { return s.bind(index, v) }

// BindUint64 records an unsigned integer bind.
func (s *Statement) BindUint64(index int, v uint64) error { return s.bind(index, v) }

// BindFloat64 records a float bind.
func (s *Statement) BindFloat64(index int, v float64) error { return s.bind(index, v) }

// BindBlob records a blob bind.
func (s *Statement) BindBlob(index int, v []byte) error { return s.bind(index, v) }

// BindTimestamp records a timestamp bind.
func (s *Statement) BindTimestamp(index int, v time.Time) error { return s.bind(index, v) }

// Exec records an execution that produces no cursor.
func (s *Statement) Exec() error {
	s.ExecCalls++
	if s.FailExec {
		return s.failure()
	}
	return nil
}

// Query hands out a fresh scripted cursor.
func (s *Statement) Query() (backend.Cursor, error) {
	s.QueryCalls++
	if s.FailQuery {
		return nil, s.failure()
	}
	if s.cfg.NilCursor {
		return nil, nil
	}

	var cfg CursorConfig
	switch {
	case s.cfg.Echo:
		cfg.Columns = make([]string, s.cfg.Params)
		row := make([]any, s.cfg.Params)
		for i := range row {
			cfg.Columns[i] = "c" + strconv.Itoa(i+1)
			row[i] = s.Bound[i]
		}
		cfg.Rows = [][]any{row}
	case s.cfg.Result != nil:
		cfg = *s.cfg.Result
	}

	cur, err := NewCursor(cfg)
	if err != nil {
		return nil, err
	}
	s.Cursors = append(s.Cursors, cur)
	return cur, nil
}

// RowsChanged reports the scripted affected-row count.
func (s *Statement) RowsChanged() int64 { return s.cfg.RowsChanged }

// Close records the close and returns the configured error, if any.
func (s *Statement) Close() error {
	s.Closed = true
	return s.cfg.CloseErr
}

// LastCursor returns the cursor produced by the most recent Query, or nil.
func (s *Statement) LastCursor() *Cursor {
	if len(s.Cursors) == 0 {
		return nil
	}
	return s.Cursors[len(s.Cursors)-1]
}

func (s *Statement) failure() error {
	if s.Error != nil {
		return s.Error
	}
	return ErrOperationFailed
}

func (s *Statement) bind(index int, v any) error {
	if index < 0 || index >= s.cfg.Params {
		return fmt.Errorf("parameter index %d outside [1, %d]: %w", index+1, s.cfg.Params, sdk.ErrRange)
	}
	if s.cfg.BindValidator != nil {
		if err := s.cfg.BindValidator(index, v); err != nil {
			return err
		}
	}
	s.Bound[index] = v
	return nil
}

// Render converts a scripted cell value to the raw form a text-protocol
// engine would produce.
func Render(v any) backend.Value {
	switch x := v.(type) {
	case nil:
		return backend.Value{Null: true}
	case []byte:
		return backend.Value{Data: x}
	case string:
		return backend.Value{Data: []byte(x)}
	case int:
		return backend.Value{Data: strconv.AppendInt(nil, int64(x), 10)}
	case int64:
		return backend.Value{Data: strconv.AppendInt(nil, x, 10)}
	case uint64:
		return backend.Value{Data: strconv.AppendUint(nil, x, 10)}
	case float64:
		return backend.Value{Data: strconv.AppendFloat(nil, x, 'g', -1, 64)}
	case time.Time:
		return backend.Value{Data: []byte(x.Format("2006-01-02 15:04:05"))}
	default:
		return backend.Value{Data: []byte(fmt.Sprintf("%v", x))}
	}
}
