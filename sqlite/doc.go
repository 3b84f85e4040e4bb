/*
Package sqlite provides SDK access to SQLite databases.

It registers the cgo SQLite database/sql driver and routes everything else
through the stdsql bridge.
*/
package sqlite
