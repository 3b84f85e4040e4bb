package resultset

import (
	"errors"
	"fmt"
	"time"

	sdk "github.com/dbkit-project/sdk"
	"github.com/dbkit-project/sdk/backend"
	"github.com/dbkit-project/sdk/sqltime"
	"github.com/dbkit-project/sdk/value"
)

var (
	// ErrNilBackend is returned when no backend cursor is provided.
	ErrNilBackend = errors.New("backend cursor cannot be nil")
)

// Config controls how a ResultSet is assembled.
type Config struct {
	// SDKConfig provides shared runtime settings such as the timezone used
	// for temporal coercion.
	SDKConfig sdk.RuntimeConfig
}

// ResultSet is a forward-only, single-pass cursor over a query's rows.
//
// The cursor is initially positioned before the first row; Next advances it
// and returns false once the rows are exhausted. Columns are numbered from
// 1. Getter results are re-derived from the raw engine bytes on every call,
// so the same column can be read as a string, a number or a timestamp.
//
// Blob slices returned by GetBlob alias storage the backend reuses between
// rows: they are valid only until the next call to Next or Close. Copy them
// if you need them longer.
//
// A ResultSet is reentrant but not safe for concurrent use; exactly one
// goroutine may operate on it at a time.
type ResultSet struct {
	cur    backend.Cursor
	codec  value.Codec
	done   bool
	closed bool
}

// New wraps a backend cursor in a ResultSet.
func New(cur backend.Cursor, config Config) (*ResultSet, error) {
	if cur == nil {
		return nil, ErrNilBackend
	}
	return &ResultSet{
		cur:   cur,
		codec: value.Codec{Location: config.SDKConfig.TimeLocation()},
	}, nil
}

// ColumnCount returns the number of columns in this ResultSet. The count is
// stable for the cursor's lifetime.
func (r *ResultSet) ColumnCount() int {
	if r.closed {
		return 0
	}
	return r.cur.ColumnCount()
}

// ColumnName returns the name of the designated column. The first column is
// 1, the second is 2, and so on. Probing metadata never fails: out-of-range
// indices report ok == false instead of an error.
func (r *ResultSet) ColumnName(columnIndex int) (name string, ok bool) {
	if r.closed || columnIndex < 1 || columnIndex > r.cur.ColumnCount() {
		return "", false
	}
	return r.cur.ColumnName(columnIndex - 1), true
}

// ColumnSize returns the designated column's size in bytes: the number of
// bytes in a blob, otherwise the number of bytes in the value's string form.
func (r *ResultSet) ColumnSize(columnIndex int) (int64, error) {
	const op = "ResultSet.ColumnSize"
	if err := r.check(op, columnIndex); err != nil {
		return 0, err
	}
	n, err := r.cur.ColumnSize(columnIndex - 1)
	if err != nil {
		return 0, accessErr(op, err)
	}
	return n, nil
}

// Next moves the cursor down one row from its current position. The first
// call makes the first row current. It returns false when no more rows
// exist, including immediately on an empty result, and the cursor stays
// exhausted from then on.
func (r *ResultSet) Next() (bool, error) {
	const op = "ResultSet.Next"
	if r.closed {
		return false, accessErr(op, errClosed)
	}
	if r.done {
		return false, nil
	}
	ok, err := r.cur.Next()
	if err != nil {
		return false, accessErr(op, err)
	}
	if !ok {
		r.done = true
	}
	return ok, nil
}

// IsNull reports whether the designated column in the current row is SQL
// NULL. Use it to distinguish SQL NULL from a genuine zero, empty string or
// nil blob, since the typed getters map NULL to those values.
func (r *ResultSet) IsNull(columnIndex int) (bool, error) {
	const op = "ResultSet.IsNull"
	v, err := r.valueAt(op, columnIndex)
	if err != nil {
		return false, err
	}
	return v.Null, nil
}

// GetString returns the designated column in the current row as a string,
// or "" if the value is SQL NULL.
func (r *ResultSet) GetString(columnIndex int) (string, error) {
	const op = "ResultSet.GetString"
	v, err := r.valueAt(op, columnIndex)
	if err != nil {
		return "", err
	}
	return r.codec.String(v), nil
}

// GetStringByName is GetString addressed by case-sensitive column name.
func (r *ResultSet) GetStringByName(columnName string) (string, error) {
	i, err := r.findColumn("ResultSet.GetStringByName", columnName)
	if err != nil {
		return "", err
	}
	return r.GetString(i)
}

// GetInt returns the designated column in the current row as an int, parsed
// with 32-bit range, or 0 if the value is SQL NULL.
func (r *ResultSet) GetInt(columnIndex int) (int, error) {
	const op = "ResultSet.GetInt"
	v, err := r.valueAt(op, columnIndex)
	if err != nil {
		return 0, err
	}
	n, err := r.codec.Int(v)
	if err != nil {
		return 0, opErr(op, err)
	}
	return n, nil
}

// GetIntByName is GetInt addressed by case-sensitive column name.
func (r *ResultSet) GetIntByName(columnName string) (int, error) {
	i, err := r.findColumn("ResultSet.GetIntByName", columnName)
	if err != nil {
		return 0, err
	}
	return r.GetInt(i)
}

// GetInt64 returns the designated column in the current row as an int64, or
// 0 if the value is SQL NULL.
func (r *ResultSet) GetInt64(columnIndex int) (int64, error) {
	const op = "ResultSet.GetInt64"
	v, err := r.valueAt(op, columnIndex)
	if err != nil {
		return 0, err
	}
	n, err := r.codec.Int64(v)
	if err != nil {
		return 0, opErr(op, err)
	}
	return n, nil
}

// GetInt64ByName is GetInt64 addressed by case-sensitive column name.
func (r *ResultSet) GetInt64ByName(columnName string) (int64, error) {
	i, err := r.findColumn("ResultSet.GetInt64ByName", columnName)
	if err != nil {
		return 0, err
	}
	return r.GetInt64(i)
}

// GetFloat64 returns the designated column in the current row as a float64,
// or 0 if the value is SQL NULL.
func (r *ResultSet) GetFloat64(columnIndex int) (float64, error) {
	const op = "ResultSet.GetFloat64"
	v, err := r.valueAt(op, columnIndex)
	if err != nil {
		return 0, err
	}
	f, err := r.codec.Float64(v)
	if err != nil {
		return 0, opErr(op, err)
	}
	return f, nil
}

// GetFloat64ByName is GetFloat64 addressed by case-sensitive column name.
func (r *ResultSet) GetFloat64ByName(columnName string) (float64, error) {
	i, err := r.findColumn("ResultSet.GetFloat64ByName", columnName)
	if err != nil {
		return 0, err
	}
	return r.GetFloat64(i)
}

// GetBlob returns the designated column in the current row as raw bytes, or
// nil if the value is SQL NULL. The slice is valid only until the next call
// to Next or Close; copy it if you need it longer.
func (r *ResultSet) GetBlob(columnIndex int) ([]byte, error) {
	const op = "ResultSet.GetBlob"
	v, err := r.valueAt(op, columnIndex)
	if err != nil {
		return nil, err
	}
	return r.codec.Blob(v), nil
}

// GetBlobByName is GetBlob addressed by case-sensitive column name.
func (r *ResultSet) GetBlobByName(columnName string) ([]byte, error) {
	i, err := r.findColumn("ResultSet.GetBlobByName", columnName)
	if err != nil {
		return nil, err
	}
	return r.GetBlob(i)
}

// GetTimestamp returns the designated column in the current row as a point
// in time resolved in the configured timezone, or the zero time if the
// value is SQL NULL. Use it for columns with the SQL DateTime or Timestamp
// types.
func (r *ResultSet) GetTimestamp(columnIndex int) (time.Time, error) {
	const op = "ResultSet.GetTimestamp"
	v, err := r.valueAt(op, columnIndex)
	if err != nil {
		return time.Time{}, err
	}
	t, err := r.codec.Timestamp(v)
	if err != nil {
		return time.Time{}, opErr(op, err)
	}
	return t, nil
}

// GetTimestampByName is GetTimestamp addressed by case-sensitive column name.
func (r *ResultSet) GetTimestampByName(columnName string) (time.Time, error) {
	i, err := r.findColumn("ResultSet.GetTimestampByName", columnName)
	if err != nil {
		return time.Time{}, err
	}
	return r.GetTimestamp(i)
}

// GetDate returns the designated column in the current row as calendar
// fields, or the zero Date if the value is SQL NULL.
func (r *ResultSet) GetDate(columnIndex int) (sqltime.Date, error) {
	const op = "ResultSet.GetDate"
	v, err := r.valueAt(op, columnIndex)
	if err != nil {
		return sqltime.Date{}, err
	}
	d, err := r.codec.Date(v)
	if err != nil {
		return sqltime.Date{}, opErr(op, err)
	}
	return d, nil
}

// GetDateByName is GetDate addressed by case-sensitive column name.
func (r *ResultSet) GetDateByName(columnName string) (sqltime.Date, error) {
	i, err := r.findColumn("ResultSet.GetDateByName", columnName)
	if err != nil {
		return sqltime.Date{}, err
	}
	return r.GetDate(i)
}

// GetTime returns the designated column in the current row as clock fields,
// or the zero Time if the value is SQL NULL.
func (r *ResultSet) GetTime(columnIndex int) (sqltime.Time, error) {
	const op = "ResultSet.GetTime"
	v, err := r.valueAt(op, columnIndex)
	if err != nil {
		return sqltime.Time{}, err
	}
	t, err := r.codec.Time(v)
	if err != nil {
		return sqltime.Time{}, opErr(op, err)
	}
	return t, nil
}

// GetTimeByName is GetTime addressed by case-sensitive column name.
func (r *ResultSet) GetTimeByName(columnName string) (sqltime.Time, error) {
	i, err := r.findColumn("ResultSet.GetTimeByName", columnName)
	if err != nil {
		return sqltime.Time{}, err
	}
	return r.GetTime(i)
}

// GetDateTime returns the designated column in the current row as combined
// calendar and clock fields, or the zero DateTime if the value is SQL NULL.
func (r *ResultSet) GetDateTime(columnIndex int) (sqltime.DateTime, error) {
	const op = "ResultSet.GetDateTime"
	v, err := r.valueAt(op, columnIndex)
	if err != nil {
		return sqltime.DateTime{}, err
	}
	dt, err := r.codec.DateTime(v)
	if err != nil {
		return sqltime.DateTime{}, opErr(op, err)
	}
	return dt, nil
}

// GetDateTimeByName is GetDateTime addressed by case-sensitive column name.
func (r *ResultSet) GetDateTimeByName(columnName string) (sqltime.DateTime, error) {
	i, err := r.findColumn("ResultSet.GetDateTimeByName", columnName)
	if err != nil {
		return sqltime.DateTime{}, err
	}
	return r.GetDateTime(i)
}

// Close releases the backend cursor. Closing an already closed ResultSet is
// a no-op. After Close every data access fails with sdk.ErrAccess.
func (r *ResultSet) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.done = true
	return r.cur.Close()
}

// valueAt range-checks columnIndex and fetches the raw value for the current
// row. A failed fetch does not disturb the cursor position.
func (r *ResultSet) valueAt(op string, columnIndex int) (backend.Value, error) {
	if err := r.check(op, columnIndex); err != nil {
		return backend.Value{}, err
	}
	v, err := r.cur.Value(columnIndex - 1)
	if err != nil {
		return backend.Value{}, accessErr(op, err)
	}
	return v, nil
}

func (r *ResultSet) check(op string, columnIndex int) error {
	if r.closed {
		return accessErr(op, errClosed)
	}
	if count := r.cur.ColumnCount(); columnIndex < 1 || columnIndex > count {
		return fmt.Errorf("%s: column index %d outside [1, %d]: %w", op, columnIndex, count, sdk.ErrRange)
	}
	return nil
}

// findColumn resolves a case-sensitive column name to its 1-based index.
// When several columns share the name, the first match wins.
func (r *ResultSet) findColumn(op, columnName string) (int, error) {
	if r.closed {
		return 0, accessErr(op, errClosed)
	}
	for i, count := 0, r.cur.ColumnCount(); i < count; i++ {
		if r.cur.ColumnName(i) == columnName {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%s: %q: %w", op, columnName, sdk.ErrNotFound)
}

var errClosed = errors.New("result set is closed")

func accessErr(op string, cause error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(sdk.ErrAccess, cause))
}

func opErr(op string, cause error) error {
	return fmt.Errorf("%s: %w", op, cause)
}
