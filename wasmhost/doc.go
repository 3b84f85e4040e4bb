/*
Package wasmhost provides SDK access to SQL databases owned by a waPC host
runtime.

The guest never holds a database connection. Exec and Query serialize the
statement with protocol buffers, call the host's sql capability, and decode
the response; query rows arrive as a JSON document and are replayed through
a cursor. Prepared statements are client-side: placeholders are rendered as
quoted SQL literals when the statement runs, since the host protocol only
carries finished query text.
*/
package wasmhost
