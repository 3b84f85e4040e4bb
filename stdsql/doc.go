/*
Package stdsql bridges any database/sql driver into the SDK's backend
contract.

Rows are scanned into sql.RawBytes, so column values reach the engines as
the driver's raw bytes with the same until-next-row validity window the
resultset API documents. Placeholder counting assumes ordinal `?` markers,
which is what the drivers shipped with the SDK (duckdb, sqlite) use.
*/
package stdsql
