/*
Package duckdb provides SDK access to DuckDB databases.

It registers the DuckDB database/sql driver and routes everything else
through the stdsql bridge, so statements, cursors and error classification
behave exactly as they do for any other backend.
*/
package duckdb
