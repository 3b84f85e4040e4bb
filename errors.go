package sdk

import "errors"

var (
	// ErrRange indicates a column or parameter index outside the valid range.
	ErrRange = errors.New("index out of range")

	// ErrNotFound indicates that no column matches the requested name.
	ErrNotFound = errors.New("column not found")

	// ErrConversion indicates a value that cannot be coerced to the requested type.
	ErrConversion = errors.New("value conversion failed")

	// ErrExecution indicates that the backend failed to run a statement or
	// to produce a result set.
	ErrExecution = errors.New("statement execution failed")

	// ErrAccess indicates a backend failure while advancing or fetching rows.
	ErrAccess = errors.New("database access failed")
)
