package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"userstream/internal/stream"
)

// DefaultBatchSize is the number of rows per INSERT statement.
const DefaultBatchSize = 1000

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Result summarizes an Insert.
type Result struct {
	Inserted int64 `json:"inserted"`
	Skipped  int64 `json:"skipped"`
}

func checkIdent(kind, name string) error {
	if !identRe.MatchString(name) {
		return fmt.Errorf("%w: %s name %q", stream.ErrInvalidArgument, kind, name)
	}
	return nil
}

// EnsureDatabase creates the database if it does not exist.
func EnsureDatabase(ctx context.Context, db *sql.DB, name string) error {
	if err := checkIdent("database", name); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name)); err != nil {
		return &stream.SourceError{Op: "create database", Err: err}
	}
	return nil
}

// TableDDL returns the CREATE TABLE statement for table.
func TableDDL(table string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` (\n"+
		"\tuser_id CHAR(36) PRIMARY KEY,\n"+
		"\tname    VARCHAR(255) NOT NULL,\n"+
		"\temail   VARCHAR(255) NOT NULL,\n"+
		"\tage     DECIMAL(5, 0) NOT NULL,\n"+
		"\tINDEX (user_id)\n"+
		")", table)
}

// EnsureTable creates table if it does not exist.
func EnsureTable(ctx context.Context, db *sql.DB, table string) error {
	if err := checkIdent("table", table); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, TableDDL(table)); err != nil {
		return &stream.SourceError{Op: "create table", Err: err}
	}
	return nil
}

// InsertSQL returns a multi-row INSERT IGNORE for n rows.
func InsertSQL(table string, n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT IGNORE INTO `%s` (%s) VALUES ", table, strings.Join(stream.Columns, ", "))
	for i := range n {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(?, ?, ?, ?)")
	}
	return b.String()
}

// Insert writes every record of it into table in batches of batchSize,
// skipping rows whose user_id already exists. it is closed on return. Rows
// of batches that completed before an error stay inserted.
func Insert(ctx context.Context, db *sql.DB, table string, it stream.RecordIterator, batchSize int) (Result, error) {
	defer func() { _ = it.Close() }()

	var res Result
	if err := checkIdent("table", table); err != nil {
		return res, err
	}
	if batchSize <= 0 {
		return res, fmt.Errorf("%w: batch size must be positive, got %d", stream.ErrInvalidArgument, batchSize)
	}

	batch := make([]stream.Record, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		args := make([]any, 0, len(batch)*len(stream.Columns))
		for _, r := range batch {
			args = append(args, r.UserID, r.Name, r.Email, r.Age)
		}
		out, err := db.ExecContext(ctx, InsertSQL(table, len(batch)), args...)
		if err != nil {
			return &stream.SourceError{Op: "insert", Err: err}
		}
		n, err := out.RowsAffected()
		if err != nil {
			return &stream.SourceError{Op: "insert", Err: err}
		}
		res.Inserted += n
		res.Skipped += int64(len(batch)) - n
		batch = batch[:0]
		return nil
	}

	for {
		rec, err := it.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, err
		}
		batch = append(batch, rec)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return res, err
			}
		}
	}
	return res, flush()
}
