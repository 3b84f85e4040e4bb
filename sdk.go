package sdk

import (
	"log/slog"
	"time"
)

// RuntimeConfig carries configuration that is shared by SDK components.
// The zero value is usable: temporal values are interpreted in the process
// local timezone and logging is disabled.
type RuntimeConfig struct {
	// Location is the timezone used when coercing temporal column values.
	// If nil, time.Local is used.
	Location *time.Location

	// Logger receives debug-level driver events such as connects and
	// statement executions. If nil, logging is disabled.
	Logger *slog.Logger
}

// TimeLocation returns the configured location, falling back to time.Local.
func (c RuntimeConfig) TimeLocation() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// Log returns the configured logger, falling back to a discard logger.
func (c RuntimeConfig) Log() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
