package statement

import (
	"errors"
	"fmt"
	"time"

	sdk "github.com/dbkit-project/sdk"
	"github.com/dbkit-project/sdk/backend"
	"github.com/dbkit-project/sdk/resultset"
)

var (
	// ErrNilBackend is returned when no backend statement is provided.
	ErrNilBackend = errors.New("backend statement cannot be nil")
)

// Config controls how a Statement is assembled.
type Config struct {
	// SDKConfig provides shared runtime settings, forwarded to the
	// ResultSets this statement produces.
	SDKConfig sdk.RuntimeConfig
}

// Statement is a pre-compiled SQL statement with placeholder parameters.
//
// Parameters are numbered from 1 and bound with the typed setters; binding a
// parameter again overwrites the previous binding. Exec runs statements that
// produce no rows, Query runs statements that do. A Statement owns at most
// one live ResultSet: Exec and Query first close any ResultSet the statement
// produced earlier, so a caller must not hold one across a re-execution.
//
// A Statement is reentrant but not safe for concurrent use.
type Statement struct {
	st      backend.Statement
	rs      *resultset.ResultSet
	runtime sdk.RuntimeConfig
	closed  bool
}

// New wraps a backend statement delegate in a Statement.
func New(st backend.Statement, config Config) (*Statement, error) {
	if st == nil {
		return nil, ErrNilBackend
	}
	return &Statement{st: st, runtime: config.SDKConfig}, nil
}

// ParameterCount returns the number of placeholder parameters in the
// statement.
func (s *Statement) ParameterCount() int {
	return s.st.ParameterCount()
}

// SetString binds a string value to the parameter at parameterIndex.
func (s *Statement) SetString(parameterIndex int, x string) error {
	return bindErr("Statement.SetString", s.st.BindString(parameterIndex-1, x))
}

// SetInt8 binds an int8 value to the parameter at parameterIndex.
func (s *Statement) SetInt8(parameterIndex int, x int8) error {
	return bindErr("Statement.SetInt8", s.st.BindInt64(parameterIndex-1, int64(x)))
}

// SetUint8 binds a uint8 value to the parameter at parameterIndex.
func (s *Statement) SetUint8(parameterIndex int, x uint8) error {
	return bindErr("Statement.SetUint8", s.st.BindUint64(parameterIndex-1, uint64(x)))
}

// SetInt16 binds an int16 value to the parameter at parameterIndex.
func (s *Statement) SetInt16(parameterIndex int, x int16) error {
	return bindErr("Statement.SetInt16", s.st.BindInt64(parameterIndex-1, int64(x)))
}

// SetUint16 binds a uint16 value to the parameter at parameterIndex.
func (s *Statement) SetUint16(parameterIndex int, x uint16) error {
	return bindErr("Statement.SetUint16", s.st.BindUint64(parameterIndex-1, uint64(x)))
}

// SetInt32 binds an int32 value to the parameter at parameterIndex.
func (s *Statement) SetInt32(parameterIndex int, x int32) error {
	return bindErr("Statement.SetInt32", s.st.BindInt64(parameterIndex-1, int64(x)))
}

// SetUint32 binds a uint32 value to the parameter at parameterIndex.
func (s *Statement) SetUint32(parameterIndex int, x uint32) error {
	return bindErr("Statement.SetUint32", s.st.BindUint64(parameterIndex-1, uint64(x)))
}

// SetInt64 binds an int64 value to the parameter at parameterIndex.
func (s *Statement) SetInt64(parameterIndex int, x int64) error {
	return bindErr("Statement.SetInt64", s.st.BindInt64(parameterIndex-1, x))
}

// SetUint64 binds a uint64 value to the parameter at parameterIndex.
func (s *Statement) SetUint64(parameterIndex int, x uint64) error {
	return bindErr("Statement.SetUint64", s.st.BindUint64(parameterIndex-1, x))
}

// SetFloat64 binds a float64 value to the parameter at parameterIndex.
func (s *Statement) SetFloat64(parameterIndex int, x float64) error {
	return bindErr("Statement.SetFloat64", s.st.BindFloat64(parameterIndex-1, x))
}

// SetBlob binds raw bytes to the parameter at parameterIndex. A nil slice
// binds SQL NULL.
func (s *Statement) SetBlob(parameterIndex int, x []byte) error {
	return bindErr("Statement.SetBlob", s.st.BindBlob(parameterIndex-1, x))
}

// SetTimestamp binds a point in time to the parameter at parameterIndex.
func (s *Statement) SetTimestamp(parameterIndex int, x time.Time) error {
	return bindErr("Statement.SetTimestamp", s.st.BindTimestamp(parameterIndex-1, x))
}

// Exec runs a statement that returns no rows, such as DDL or DML. Any
// ResultSet previously produced by this statement is closed first, so a
// stale cursor can never observe post-execute state.
func (s *Statement) Exec() error {
	const op = "Statement.Exec"
	s.clearResultSet()
	if err := s.st.Exec(); err != nil {
		return fmt.Errorf("%s: %w", op, errors.Join(sdk.ErrExecution, err))
	}
	return nil
}

// Query runs the statement and returns a ResultSet over its rows. Any
// ResultSet previously produced by this statement is closed first. The
// returned ResultSet is owned by the statement and stays valid until the
// next Exec, Query or Close.
func (s *Statement) Query() (*resultset.ResultSet, error) {
	const op = "Statement.Query"
	s.clearResultSet()
	cur, err := s.st.Query()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, errors.Join(sdk.ErrExecution, err))
	}
	if cur == nil {
		return nil, fmt.Errorf("%s: backend produced no cursor: %w", op, sdk.ErrExecution)
	}
	rs, err := resultset.New(cur, resultset.Config{SDKConfig: s.runtime})
	if err != nil {
		_ = cur.Close()
		return nil, fmt.Errorf("%s: %w", op, errors.Join(sdk.ErrExecution, err))
	}
	s.rs = rs
	return rs, nil
}

// RowsChanged returns the number of rows affected by the last Exec or
// Query. It is defined only after one of them has succeeded.
func (s *Statement) RowsChanged() int64 {
	return s.st.RowsChanged()
}

// Close releases the statement and any live ResultSet it owns. The cursor
// is always freed before the backend delegate. Closing an already closed
// Statement is a no-op.
func (s *Statement) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.clearResultSet()
	return s.st.Close()
}

// clearResultSet closes and drops the statement's live cursor, if any.
// Close failures on a superseded cursor are not actionable and are dropped.
func (s *Statement) clearResultSet() {
	if s.rs != nil {
		_ = s.rs.Close()
		s.rs = nil
	}
}

func bindErr(op string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
