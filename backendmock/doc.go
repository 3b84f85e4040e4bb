/*
Package backendmock provides friendly pretend engine backends.

It is designed primarily for SDK development and tests that want to exercise
the resultset and statement engines against scripted rows and failures,
without a real database on the other side.

Why use backendmock?

  - Script rows: hand the cursor literal Go values and read them back
    through the typed getters.
  - Inspect binds: plug in a BindValidator to assert what a statement sends
    to its backend.
  - Simulate failures: make Next, Value, Exec or Query fail with a custom
    error, or make Query succeed without producing a cursor.

Quick start

	cur, _ := backendmock.NewCursor(backendmock.CursorConfig{
		Columns: []string{"id", "name"},
		Rows:    [][]any{{1, "a"}},
	})
	rs, _ := resultset.New(cur, resultset.Config{})

Cell values may be nil to script SQL NULL. Non-nil cells are rendered to
their text form, matching how text-protocol engines hand values to the SDK.
*/
package backendmock
