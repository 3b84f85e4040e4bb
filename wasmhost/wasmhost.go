package wasmhost

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/sql"
	wapc "github.com/wapc/wapc-guest-tinygo"

	sdk "github.com/dbkit-project/sdk"
	"github.com/dbkit-project/sdk/backend"
	"github.com/dbkit-project/sdk/resultset"
	"github.com/dbkit-project/sdk/statement"
)

const (
	capabilityName = "sql"
	fnExec         = "exec"
	fnQuery        = "query"

	// DefaultNamespace is the host namespace used when none is configured.
	DefaultNamespace = "default"

	hostStatusOK       = int32(200)
	hostStatusPartial  = int32(206)
	hostStatusBadInput = int32(400)
	hostStatusMissing  = int32(404)
	hostStatusError    = int32(500)
)

var (
	// ErrInvalidQuery indicates an empty SQL query.
	ErrInvalidQuery = errors.New("query is invalid")

	// ErrMarshalRequest wraps failures while encoding the request payload.
	ErrMarshalRequest = errors.New("failed to marshal request")

	// ErrHostCall indicates the host function itself failed.
	ErrHostCall = errors.New("host call failed")

	// ErrHostResponseInvalid indicates an undecodable or incomplete host
	// response.
	ErrHostResponseInvalid = errors.New("host response invalid")

	// ErrHostError indicates the host reported a failure status.
	ErrHostError = errors.New("host returned error status")
)

// HostCall is the waPC host function signature used for SQL operations.
type HostCall func(string, string, string, []byte) ([]byte, error)

// Config controls how a Conn interacts with the host runtime.
type Config struct {
	// SDKConfig provides shared runtime settings forwarded to the engines.
	SDKConfig sdk.RuntimeConfig

	// Namespace is the host namespace SQL calls are routed to. Empty
	// selects DefaultNamespace.
	Namespace string

	// HostCall overrides the waPC host function. Leave nil outside tests.
	HostCall HostCall
}

// Conn is a SQL backend that delegates execution to a waPC host's sql
// capability. The host owns the real database connection; guests see only
// serialized requests and responses.
type Conn struct {
	namespace string
	hostCall  HostCall
	runtime   sdk.RuntimeConfig
}

// New creates a host-backed SQL connection.
func New(config Config) (*Conn, error) {
	namespace := config.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	hostCall := config.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	return &Conn{namespace: namespace, hostCall: hostCall, runtime: config.SDKConfig}, nil
}

// Prepare compiles query into a Statement. The host protocol has no
// server-side statements, so placeholders are interpolated as quoted SQL
// literals when the statement runs.
func (c *Conn) Prepare(query string) (*statement.Statement, error) {
	if query == "" {
		return nil, ErrInvalidQuery
	}
	del := &stmt{
		conn:   c,
		query:  query,
		params: make([]string, countPlaceholders(query)),
		bound:  make([]bool, countPlaceholders(query)),
	}
	return statement.New(del, statement.Config{SDKConfig: c.runtime})
}

// Exec runs a statement that returns no rows and reports the number of rows
// it affected.
func (c *Conn) Exec(query string) (int64, error) {
	res, err := c.exec(query)
	if err != nil {
		return 0, fmt.Errorf("exec: %w", errors.Join(sdk.ErrExecution, err))
	}
	return res.rowsAffected, nil
}

// Query runs a statement and returns a ResultSet over its rows.
func (c *Conn) Query(query string) (*resultset.ResultSet, error) {
	cur, err := c.query(query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", errors.Join(sdk.ErrExecution, err))
	}
	return resultset.New(cur, resultset.Config{SDKConfig: c.runtime})
}

// Close releases the connection. The host owns all real resources, so this
// is a no-op kept for API symmetry.
func (c *Conn) Close() error {
	return nil
}

type execResult struct {
	lastInsertID int64
	rowsAffected int64
}

func (c *Conn) exec(query string) (execResult, error) {
	if query == "" {
		return execResult{}, ErrInvalidQuery
	}

	req := &proto.SQLExec{Query: []byte(query)}
	b, err := req.MarshalVT()
	if err != nil {
		return execResult{}, errors.Join(ErrMarshalRequest, err)
	}

	respBytes, callErr := c.hostCall(c.namespace, capabilityName, fnExec, b)
	if callErr != nil && len(respBytes) == 0 {
		return execResult{}, errors.Join(ErrHostCall, callErr)
	}

	var resp proto.SQLExecResponse
	if unmarshalErr := resp.UnmarshalVT(respBytes); unmarshalErr != nil {
		return execResult{}, errors.Join(ErrHostResponseInvalid, unmarshalErr)
	}

	if statusErr := validateStatus(resp.GetStatus(), callErr); statusErr != nil {
		return execResult{}, statusErr
	}

	return execResult{
		lastInsertID: resp.GetLastInsertId(),
		rowsAffected: resp.GetRowsAffected(),
	}, nil
}

func (c *Conn) query(query string) (*cursor, error) {
	if query == "" {
		return nil, ErrInvalidQuery
	}

	req := &proto.SQLQuery{Query: []byte(query)}
	b, err := req.MarshalVT()
	if err != nil {
		return nil, errors.Join(ErrMarshalRequest, err)
	}

	respBytes, callErr := c.hostCall(c.namespace, capabilityName, fnQuery, b)
	if callErr != nil && len(respBytes) == 0 {
		return nil, errors.Join(ErrHostCall, callErr)
	}

	var resp proto.SQLQueryResponse
	if unmarshalErr := resp.UnmarshalVT(respBytes); unmarshalErr != nil {
		return nil, errors.Join(ErrHostResponseInvalid, unmarshalErr)
	}

	if statusErr := validateStatus(resp.GetStatus(), callErr); statusErr != nil {
		return nil, statusErr
	}

	return newCursor(resp.GetColumns(), resp.GetData())
}

func validateStatus(status *sdkproto.Status, callErr error) error {
	if status == nil {
		if callErr != nil {
			return errors.Join(ErrHostCall, callErr, ErrHostResponseInvalid)
		}
		return ErrHostResponseInvalid
	}

	code := status.GetCode()
	switch code {
	case hostStatusOK, hostStatusPartial:
		return nil
	case hostStatusBadInput, hostStatusMissing, hostStatusError:
		detail := fmt.Sprintf("host status %d", code)
		if msg := status.GetStatus(); msg != "" {
			detail = fmt.Sprintf("%s: %s", detail, msg)
		}
		if callErr != nil {
			return errors.Join(ErrHostCall, callErr, ErrHostError, errors.New(detail))
		}
		return errors.Join(ErrHostError, errors.New(detail))
	default:
		statusErr := fmt.Errorf("unexpected host status code %d", code)
		if callErr != nil {
			return errors.Join(ErrHostCall, callErr, ErrHostResponseInvalid, statusErr)
		}
		return errors.Join(ErrHostResponseInvalid, statusErr)
	}
}

// stmt implements backend.Statement by rendering bound values as SQL
// literals into the query text. Bindings are kept pre-rendered, so a bound
// blob or string costs its literal form once, not per execution.
type stmt struct {
	conn   *Conn
	query  string
	params []string
	bound  []bool
	rows   int64
}

var _ backend.Statement = (*stmt)(nil)

func (s *stmt) ParameterCount() int { return len(s.params) }

func (s *stmt) BindString(index int, v string) error {
	return s.bind(index, quoteString(v))
}

func (s *stmt) BindInt64(index int, v int64) error {
	return s.bind(index, strconv.FormatInt(v, 10))
}

func (s *stmt) BindUint64(index int, v uint64) error {
	return s.bind(index, strconv.FormatUint(v, 10))
}

func (s *stmt) BindFloat64(index int, v float64) error {
	return s.bind(index, strconv.FormatFloat(v, 'g', -1, 64))
}

func (s *stmt) BindBlob(index int, v []byte) error {
	if v == nil {
		return s.bind(index, "NULL")
	}
	return s.bind(index, "X'"+hex.EncodeToString(v)+"'")
}

func (s *stmt) BindTimestamp(index int, v time.Time) error {
	loc := s.conn.runtime.TimeLocation()
	return s.bind(index, quoteString(v.In(loc).Format("2006-01-02 15:04:05")))
}

func (s *stmt) bind(index int, literal string) error {
	if index < 0 || index >= len(s.params) {
		return fmt.Errorf("parameter index %d outside [1, %d]: %w", index+1, len(s.params), sdk.ErrRange)
	}
	s.params[index] = literal
	s.bound[index] = true
	return nil
}

func (s *stmt) Exec() error {
	res, err := s.conn.exec(s.render())
	if err != nil {
		return err
	}
	s.rows = res.rowsAffected
	return nil
}

func (s *stmt) Query() (backend.Cursor, error) {
	cur, err := s.conn.query(s.render())
	if err != nil {
		return nil, err
	}
	s.rows = 0
	return cur, nil
}

func (s *stmt) RowsChanged() int64 { return s.rows }

func (s *stmt) Close() error { return nil }

// render substitutes each placeholder with its bound literal. Unbound
// placeholders become NULL, matching what a driver binds for a parameter
// that was never set.
func (s *stmt) render() string {
	var b strings.Builder
	b.Grow(len(s.query))
	next := 0
	var quote byte
	for i := 0; i < len(s.query); i++ {
		ch := s.query[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
			b.WriteByte(ch)
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
			b.WriteByte(ch)
		case ch == '?':
			if next < len(s.params) && s.bound[next] {
				b.WriteString(s.params[next])
			} else {
				b.WriteString("NULL")
			}
			next++
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// countPlaceholders reports the number of ordinal `?` placeholders in
// query, ignoring question marks inside quoted literals and identifiers.
func countPlaceholders(query string) int {
	n := 0
	var quote byte
	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
		case ch == '?':
			n++
		}
	}
	return n
}

// cursor implements backend.Cursor over the host's JSON row payload. The
// whole result is decoded up front; the host protocol has no incremental
// fetch.
type cursor struct {
	cols []string
	rows []map[string]json.RawMessage
	pos  int
}

var _ backend.Cursor = (*cursor)(nil)

func newCursor(cols []string, data []byte) (*cursor, error) {
	c := &cursor{cols: cols, pos: -1}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &c.rows); err != nil {
			return nil, errors.Join(ErrHostResponseInvalid, err)
		}
	}
	return c, nil
}

func (c *cursor) Next() (bool, error) {
	if c.pos+1 >= len(c.rows) {
		c.pos = len(c.rows)
		return false, nil
	}
	c.pos++
	return true, nil
}

func (c *cursor) ColumnCount() int { return len(c.cols) }

func (c *cursor) ColumnName(index int) string { return c.cols[index] }

func (c *cursor) ColumnSize(index int) (int64, error) {
	v, err := c.Value(index)
	if err != nil {
		return 0, err
	}
	return int64(len(v.Data)), nil
}

// Value renders the JSON field as raw bytes. JSON strings are unquoted,
// numbers and booleans keep their textual form, and a missing field or JSON
// null reads as SQL NULL.
func (c *cursor) Value(index int) (backend.Value, error) {
	if c.pos < 0 || c.pos >= len(c.rows) {
		return backend.Value{}, errors.New("cursor is not positioned on a row")
	}
	raw, ok := c.rows[c.pos][c.cols[index]]
	if !ok || string(raw) == "null" {
		return backend.Value{Null: true}, nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return backend.Value{}, errors.Join(ErrHostResponseInvalid, err)
		}
		return backend.Value{Data: []byte(s)}, nil
	}
	return backend.Value{Data: raw}, nil
}

func (c *cursor) Close() error { return nil }
