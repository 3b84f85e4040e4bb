package statement

import (
	"errors"
	"testing"
	"time"

	sdk "github.com/dbkit-project/sdk"
	"github.com/dbkit-project/sdk/backendmock"
)

func newStmt(t *testing.T, cfg backendmock.StatementConfig) (*Statement, *backendmock.Statement) {
	t.Helper()

	mock, err := backendmock.NewStatement(cfg)
	if err != nil {
		t.Fatalf("backendmock: %v", err)
	}
	st, err := New(mock, Config{SDKConfig: sdk.RuntimeConfig{Location: time.UTC}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return st, mock
}

func TestNew_NilBackend(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, Config{}); !errors.Is(err, ErrNilBackend) {
		t.Fatalf("expected ErrNilBackend, got %v", err)
	}
}

func TestSetters_RecordBinds(t *testing.T) {
	t.Parallel()

	st, mock := newStmt(t, backendmock.StatementConfig{Params: 12})

	when := time.Date(2024, 3, 5, 14, 30, 15, 0, time.UTC)
	blob := []byte{0xde, 0xad}

	steps := []struct {
		name string
		set  func() error
		want any
	}{
		{"SetString", func() error { return st.SetString(1, "a") }, "a"},
		{"SetInt8", func() error { return st.SetInt8(2, -8) }, int64(-8)},
		{"SetUint8", func() error { return st.SetUint8(3, 8) }, uint64(8)},
		{"SetInt16", func() error { return st.SetInt16(4, -16) }, int64(-16)},
		{"SetUint16", func() error { return st.SetUint16(5, 16) }, uint64(16)},
		{"SetInt32", func() error { return st.SetInt32(6, -32) }, int64(-32)},
		{"SetUint32", func() error { return st.SetUint32(7, 32) }, uint64(32)},
		{"SetInt64", func() error { return st.SetInt64(8, -64) }, int64(-64)},
		{"SetUint64", func() error { return st.SetUint64(9, 64) }, uint64(64)},
		{"SetFloat64", func() error { return st.SetFloat64(10, 1.5) }, float64(1.5)},
		{"SetBlob", func() error { return st.SetBlob(11, blob) }, blob},
		{"SetTimestamp", func() error { return st.SetTimestamp(12, when) }, when},
	}

	for i, step := range steps {
		if err := step.set(); err != nil {
			t.Fatalf("%s returned error: %v", step.name, err)
		}
		switch want := step.want.(type) {
		case []byte:
			got, ok := mock.Bound[i].([]byte)
			if !ok || string(got) != string(want) {
				t.Fatalf("%s bound %v, want %v", step.name, mock.Bound[i], want)
			}
		default:
			if mock.Bound[i] != step.want {
				t.Fatalf("%s bound %v (%T), want %v (%T)",
					step.name, mock.Bound[i], mock.Bound[i], step.want, step.want)
			}
		}
	}

	if got := st.ParameterCount(); got != 12 {
		t.Fatalf("ParameterCount = %d, want 12", got)
	}
}

func TestSetter_Overwrite(t *testing.T) {
	t.Parallel()

	st, mock := newStmt(t, backendmock.StatementConfig{Params: 1})

	if err := st.SetInt32(1, 1); err != nil {
		t.Fatalf("SetInt32 returned error: %v", err)
	}
	if err := st.SetString(1, "two"); err != nil {
		t.Fatalf("SetString returned error: %v", err)
	}
	if mock.Bound[0] != "two" {
		t.Fatalf("bound value = %v, want \"two\"", mock.Bound[0])
	}
}

func TestSetter_OutOfRange(t *testing.T) {
	t.Parallel()

	st, _ := newStmt(t, backendmock.StatementConfig{Params: 2})

	for _, idx := range []int{0, 3, -5} {
		if err := st.SetString(idx, "x"); !errors.Is(err, sdk.ErrRange) {
			t.Fatalf("SetString(%d) = %v, want sdk.ErrRange", idx, err)
		}
	}
}

func TestExec(t *testing.T) {
	t.Parallel()

	st, mock := newStmt(t, backendmock.StatementConfig{Params: 0, RowsChanged: 3})

	if err := st.Exec(); err != nil {
		t.Fatalf("Exec returned error: %v", err)
	}
	if mock.ExecCalls != 1 {
		t.Fatalf("ExecCalls = %d, want 1", mock.ExecCalls)
	}
	if got := st.RowsChanged(); got != 3 {
		t.Fatalf("RowsChanged = %d, want 3", got)
	}
}

func TestExec_Failure(t *testing.T) {
	t.Parallel()

	cause := errors.New("syntax error near FROM")
	st, _ := newStmt(t, backendmock.StatementConfig{FailExec: true, Error: cause})

	err := st.Exec()
	if !errors.Is(err, sdk.ErrExecution) {
		t.Fatalf("Exec = %v, want sdk.ErrExecution", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("Exec = %v, want wrapped cause", err)
	}
}

func TestQuery_RoundTrip(t *testing.T) {
	t.Parallel()

	st, _ := newStmt(t, backendmock.StatementConfig{Params: 1, Echo: true})

	if err := st.SetInt32(1, 42); err != nil {
		t.Fatalf("SetInt32 returned error: %v", err)
	}
	rs, err := st.Query()
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	ok, err := rs.Next()
	if err != nil || !ok {
		t.Fatalf("Next = (%v, %v), want (true, nil)", ok, err)
	}
	got, err := rs.GetInt(1)
	if err != nil || got != 42 {
		t.Fatalf("GetInt = (%d, %v), want (42, nil)", got, err)
	}
}

func TestQuery_Failure(t *testing.T) {
	t.Parallel()

	st, _ := newStmt(t, backendmock.StatementConfig{FailQuery: true})

	if _, err := st.Query(); !errors.Is(err, sdk.ErrExecution) {
		t.Fatalf("Query = %v, want sdk.ErrExecution", err)
	}
}

func TestQuery_NilCursor(t *testing.T) {
	t.Parallel()

	st, _ := newStmt(t, backendmock.StatementConfig{NilCursor: true})

	if _, err := st.Query(); !errors.Is(err, sdk.ErrExecution) {
		t.Fatalf("Query = %v, want sdk.ErrExecution", err)
	}
}

func TestExec_InvalidatesPriorCursor(t *testing.T) {
	t.Parallel()

	st, mock := newStmt(t, backendmock.StatementConfig{
		Result: &backendmock.CursorConfig{
			Columns: []string{"id"},
			Rows:    [][]any{{1}},
		},
	})

	rs, err := st.Query()
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	first := mock.LastCursor()

	if err := st.Exec(); err != nil {
		t.Fatalf("Exec returned error: %v", err)
	}

	if !first.Closed {
		t.Fatal("prior backend cursor still open after Exec")
	}
	if _, err := rs.Next(); !errors.Is(err, sdk.ErrAccess) {
		t.Fatalf("stale ResultSet Next = %v, want sdk.ErrAccess", err)
	}
}

func TestQuery_ReplacesPriorCursor(t *testing.T) {
	t.Parallel()

	st, mock := newStmt(t, backendmock.StatementConfig{
		Result: &backendmock.CursorConfig{
			Columns: []string{"id"},
			Rows:    [][]any{{1}},
		},
	})

	old, err := st.Query()
	if err != nil {
		t.Fatalf("first Query returned error: %v", err)
	}
	first := mock.LastCursor()

	fresh, err := st.Query()
	if err != nil {
		t.Fatalf("second Query returned error: %v", err)
	}

	if !first.Closed {
		t.Fatal("prior backend cursor still open after re-Query")
	}
	if _, err := old.Next(); !errors.Is(err, sdk.ErrAccess) {
		t.Fatalf("stale ResultSet Next = %v, want sdk.ErrAccess", err)
	}

	ok, err := fresh.Next()
	if err != nil || !ok {
		t.Fatalf("fresh ResultSet Next = (%v, %v), want (true, nil)", ok, err)
	}

	// Exactly one live cursor at a time: the failed path must not leak either.
	if len(mock.Cursors) != 2 {
		t.Fatalf("backend handed out %d cursors, want 2", len(mock.Cursors))
	}
}

func TestQuery_FailureDoesNotLeakPriorCursor(t *testing.T) {
	t.Parallel()

	st, mock := newStmt(t, backendmock.StatementConfig{
		Result: &backendmock.CursorConfig{Columns: []string{"id"}},
	})

	if _, err := st.Query(); err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	first := mock.LastCursor()

	mock.FailQuery = true
	if _, err := st.Query(); !errors.Is(err, sdk.ErrExecution) {
		t.Fatalf("second Query = %v, want sdk.ErrExecution", err)
	}
	if !first.Closed {
		t.Fatal("prior cursor not closed before the failed re-execution")
	}
}

func TestClose(t *testing.T) {
	t.Parallel()

	st, mock := newStmt(t, backendmock.StatementConfig{
		Result: &backendmock.CursorConfig{Columns: []string{"id"}},
	})

	if _, err := st.Query(); err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	cur := mock.LastCursor()

	if err := st.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if !cur.Closed {
		t.Fatal("owned cursor not closed by statement Close")
	}
	if !mock.Closed {
		t.Fatal("backend delegate not closed by statement Close")
	}
	if err := st.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}
}

func TestBindValidator(t *testing.T) {
	t.Parallel()

	want := errors.New("text too long")
	st, _ := newStmt(t, backendmock.StatementConfig{
		Params: 1,
		BindValidator: func(index int, v any) error {
			if s, ok := v.(string); ok && len(s) > 3 {
				return want
			}
			return nil
		},
	})

	if err := st.SetString(1, "ok"); err != nil {
		t.Fatalf("SetString returned error: %v", err)
	}
	if err := st.SetString(1, "too long"); !errors.Is(err, want) {
		t.Fatalf("SetString = %v, want validator error", err)
	}
}
