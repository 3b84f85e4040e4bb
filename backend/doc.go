/*
Package backend defines the operation contract an engine backend must satisfy
to plug in behind the uniform resultset and statement APIs.

A backend supplies two capability values: a Cursor that fetches rows and
exposes raw column values, and a Statement that binds parameters and
executes. The engines hold these as interface values and never see a
concrete backend type. Raw values travel as bytes plus a NULL flag; all type
coercion happens in the value package on the engine side.
*/
package backend
