package seed

import (
	"context"
	"errors"
	"strings"
	"testing"

	"userstream/internal/stream"
)

func TestInsertSQL(t *testing.T) {
	t.Parallel()
	got := InsertSQL("user_data", 2)
	want := "INSERT IGNORE INTO `user_data` (user_id, name, email, age) VALUES (?, ?, ?, ?), (?, ?, ?, ?)"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestTableDDL(t *testing.T) {
	t.Parallel()
	ddl := TableDDL("user_data")
	for _, frag := range []string{
		"CREATE TABLE IF NOT EXISTS `user_data`",
		"user_id CHAR(36) PRIMARY KEY",
		"age     DECIMAL(5, 0) NOT NULL",
	} {
		if !strings.Contains(ddl, frag) {
			t.Errorf("DDL missing %q:\n%s", frag, ddl)
		}
	}
}

func TestInsertRejectsBadArguments(t *testing.T) {
	t.Parallel()
	c, err := ReadCSV(strings.NewReader("name,email,age\n"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Insert(context.Background(), nil, "user_data", c, 0); !errors.Is(err, stream.ErrInvalidArgument) {
		t.Errorf("batch 0: got %v, want ErrInvalidArgument", err)
	}
	if _, err := Insert(context.Background(), nil, "bad name", c, 10); !errors.Is(err, stream.ErrInvalidArgument) {
		t.Errorf("bad table: got %v, want ErrInvalidArgument", err)
	}
	if err := EnsureDatabase(context.Background(), nil, "x;y"); !errors.Is(err, stream.ErrInvalidArgument) {
		t.Errorf("bad database: got %v, want ErrInvalidArgument", err)
	}
	if err := EnsureTable(context.Background(), nil, ""); !errors.Is(err, stream.ErrInvalidArgument) {
		t.Errorf("empty table: got %v, want ErrInvalidArgument", err)
	}
}
