package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"userstream/internal/stream"
)

// DefaultTable is the table read when no WithTable option is given.
const DefaultTable = "user_data"

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var (
	// ErrNotOpen is returned by queries issued before Open or after Close.
	ErrNotOpen = errors.New("source: not open")
	// ErrAlreadyOpen is returned by Open while a connection is held.
	ErrAlreadyOpen = errors.New("source: already open")
)

// SQL is a stream.Source over a database/sql handle. Open takes one
// dedicated connection from the handle's pool; Close returns it.
type SQL struct {
	db    *sql.DB
	table string

	mu   sync.Mutex
	conn *sql.Conn
}

// Option configures SQL.
type Option func(*SQL)

// WithTable reads from name instead of DefaultTable.
func WithTable(name string) Option {
	return func(s *SQL) { s.table = name }
}

// New wraps an already configured handle. It fails if the table name is
// not a plain identifier.
func New(db *sql.DB, opts ...Option) (*SQL, error) {
	s := &SQL{db: db, table: DefaultTable}
	for _, opt := range opts {
		opt(s)
	}
	if !identRe.MatchString(s.table) {
		return nil, fmt.Errorf("%w: table name %q", stream.ErrInvalidArgument, s.table)
	}
	return s, nil
}

// DB returns the wrapped handle.
func (s *SQL) DB() *sql.DB { return s.db }

// SelectSQL is the full-scan query.
func (s *SQL) SelectSQL() string {
	return fmt.Sprintf("SELECT %s FROM `%s` ORDER BY user_id", strings.Join(stream.Columns, ", "), s.table)
}

// PageSQL is the paged query; it takes limit and offset arguments.
func (s *SQL) PageSQL() string {
	return s.SelectSQL() + " LIMIT ? OFFSET ?"
}

func (s *SQL) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return ErrAlreadyOpen
	}
	c, err := s.db.Conn(ctx)
	if err != nil {
		return &stream.SourceError{Op: "open", Err: err}
	}
	s.conn = c
	return nil
}

func (s *SQL) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func (s *SQL) current() (*sql.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil, ErrNotOpen
	}
	return s.conn, nil
}

func (s *SQL) Select(ctx context.Context) (stream.Cursor, error) {
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	rows, err := c.QueryContext(ctx, s.SelectSQL())
	if err != nil {
		return nil, &stream.SourceError{Op: "select", Err: err}
	}
	return &rowsCursor{rows: rows}, nil
}

func (s *SQL) SelectPage(ctx context.Context, limit, offset int) (stream.Page, error) {
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	rows, err := c.QueryContext(ctx, s.PageSQL(), limit, offset)
	if err != nil {
		return nil, &stream.SourceError{Op: "select page", Err: err}
	}
	defer func() { _ = rows.Close() }()

	page := make(stream.Page, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		page = append(page, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &stream.SourceError{Op: "select page", Err: err}
	}
	return page, nil
}

// Count returns the number of rows in the table. It uses the pool, not the
// connection held by Open.
func (s *SQL) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM `%s`", s.table)).Scan(&n)
	if err != nil {
		return 0, &stream.SourceError{Op: "count", Err: err}
	}
	return n, nil
}

// rowsCursor hands out rows of an open result set in chunks.
type rowsCursor struct {
	rows *sql.Rows
	done bool
}

func (c *rowsCursor) FetchMany(n int) ([]stream.Record, error) {
	if c.done {
		return nil, nil
	}
	out := make([]stream.Record, 0, n)
	for len(out) < n {
		if !c.rows.Next() {
			c.done = true
			if err := c.rows.Err(); err != nil {
				return nil, &stream.SourceError{Op: "fetch", Err: err}
			}
			break
		}
		rec, err := scanRecord(c.rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (c *rowsCursor) Close() error { return c.rows.Close() }

func scanRecord(rows *sql.Rows) (stream.Record, error) {
	var (
		rec stream.Record
		a   age
	)
	if err := rows.Scan(&rec.UserID, &rec.Name, &rec.Email, &a); err != nil {
		return stream.Record{}, &stream.SourceError{Op: "scan", Err: err}
	}
	rec.Age = int(a)
	return rec, nil
}

// age scans the DECIMAL(5,0) age column, which drivers hand back as text
// or as a number depending on the backend.
type age int

func (a *age) Scan(v any) error {
	switch v := v.(type) {
	case int64:
		*a = age(v)
	case float64:
		*a = age(math.Trunc(v))
	case []byte:
		return a.parse(string(v))
	case string:
		return a.parse(v)
	case nil:
		return errors.New("age is NULL")
	default:
		return fmt.Errorf("unsupported age type %T", v)
	}
	return nil
}

func (a *age) parse(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("age %q: %w", s, err)
	}
	*a = age(math.Trunc(f))
	return nil
}
