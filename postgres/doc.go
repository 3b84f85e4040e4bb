/*
Package postgres provides SDK access to PostgreSQL through a pgx connection
pool.

Prepared statements are real server-side statements: Prepare pins a pooled
connection, names the statement with a fresh UUID, and Close deallocates it
and releases the connection. Queries request text-format results so column
values reach the value codec as PostgreSQL's canonical string renderings.
*/
package postgres
