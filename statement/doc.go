/*
Package statement provides prepared SQL statements with typed parameter
binding over any engine backend.

A Statement is created by a connection from SQL text with placeholders.
Parameters are numbered from 1; the width-specific integer setters take
exact-width Go types, so an out-of-range value is a compile-time error
rather than a silent truncation. Exec and Query atomically replace the
statement's owned ResultSet: whichever cursor the statement handed out
before is closed the moment a new execution starts.
*/
package statement
