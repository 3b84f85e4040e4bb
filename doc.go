/*
Package sdk provides the shared runtime configuration and error taxonomy for
the dbkit database access SDK.

The SDK presents one uniform API for executing SQL statements and reading
results while the actual work is performed by interchangeable engine
backends. Callers interact with the resultset and statement packages; engine
specifics stay behind the capability interfaces defined in the backend
package. Concrete backends live in sibling packages (postgres, stdsql,
duckdb, sqlite, wasmhost).

Every failure is reported through error values that wrap one of the sentinel
errors declared here (ErrRange, ErrNotFound, ErrConversion, ErrExecution,
ErrAccess) together with the name of the failing operation. Use errors.Is to
classify a failure regardless of which backend produced it.
*/
package sdk
