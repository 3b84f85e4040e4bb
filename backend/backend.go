package backend

import "time"

// Value is a raw column value as produced by a backend: the engine-native
// bytes plus a SQL NULL flag. Backends may reuse the underlying byte storage
// between rows, so consumers that retain Data past the next cursor advance
// must copy it first.
type Value struct {
	Data []byte
	Null bool
}

// Cursor is the operation set an engine backend must provide to drive a
// result set. Indices at this boundary are 0-based; bounds checking and the
// public 1-based numbering are the resultset engine's job.
//
// A Cursor is positioned before the first row until Next is called. Backends
// are not required to guard against use after Close or after Next has
// returned false; the engine guarantees neither happens.
type Cursor interface {
	// Next advances to the next row. It returns false when no more rows
	// exist and an error on a fetch failure.
	Next() (bool, error)

	// ColumnCount reports the number of columns in the projection. It is
	// stable for the cursor's lifetime.
	ColumnCount() int

	// ColumnName returns the name of the column at index.
	ColumnName(index int) string

	// ColumnSize returns the byte length of the raw value at index in the
	// current row: the blob length for blobs, otherwise the length of the
	// value's string form.
	ColumnSize(index int) (int64, error)

	// Value returns the raw value at index in the current row.
	Value(index int) (Value, error)

	// Close releases the backend resources held by the cursor.
	Close() error
}

// Statement is the operation set an engine backend must provide behind a
// prepared statement. Parameter indices are 0-based at this boundary; the
// backend reports out-of-range indices as errors wrapping sdk.ErrRange.
type Statement interface {
	// ParameterCount reports the number of placeholders in the statement.
	ParameterCount() int

	// BindString binds a text value to the placeholder at index.
	BindString(index int, v string) error

	// BindInt64 binds a signed integer value to the placeholder at index.
	BindInt64(index int, v int64) error

	// BindUint64 binds an unsigned integer value to the placeholder at index.
	BindUint64(index int, v uint64) error

	// BindFloat64 binds a floating-point value to the placeholder at index.
	BindFloat64(index int, v float64) error

	// BindBlob binds a binary value to the placeholder at index.
	BindBlob(index int, v []byte) error

	// BindTimestamp binds a point in time to the placeholder at index.
	BindTimestamp(index int, v time.Time) error

	// Exec runs the statement without producing a cursor.
	Exec() error

	// Query runs the statement and returns a cursor over its results.
	Query() (Cursor, error)

	// RowsChanged reports the number of rows affected by the last Exec or
	// Query.
	RowsChanged() int64

	// Close releases the backend resources held by the statement.
	Close() error
}
