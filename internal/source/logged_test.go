package source

import (
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"userstream/internal/stream"
)

func TestLoggedLogsQueries(t *testing.T) {
	t.Parallel()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	src := Logged(newTestSource(t, 5), log)
	pages, err := stream.Paginate(context.Background(), src, 2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := stream.Collect[stream.Page](pages); err != nil {
		t.Fatal(err)
	}

	var queries, closes int
	for _, e := range hook.AllEntries() {
		if e.Message == "executing query" {
			queries++
			q, _ := e.Data["query"].(string)
			if !strings.HasSuffix(q, "LIMIT ? OFFSET ?") {
				t.Errorf("unexpected query field %q", q)
			}
		}
		if e.Data["op"] == "close" {
			closes++
		}
	}
	// offsets 0, 2, 4 and the empty page at 6
	if queries != 4 {
		t.Errorf("logged %d queries, want 4", queries)
	}
	if closes != 1 {
		t.Errorf("logged %d closes, want 1", closes)
	}
}

func TestLoggedCursorCountsRows(t *testing.T) {
	t.Parallel()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	recs, err := stream.Single(context.Background(), Logged(newTestSource(t, 4), log), stream.WithChunkSize(3))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := stream.Collect[stream.Record](recs); err != nil {
		t.Fatal(err)
	}
	var total any
	for _, e := range hook.AllEntries() {
		if e.Message == "cursor closed" {
			total = e.Data["total"]
		}
	}
	if total != 4 {
		t.Errorf("cursor total = %v, want 4", total)
	}
}

func TestLoggedWarnsOnFailure(t *testing.T) {
	t.Parallel()
	log, hook := test.NewNullLogger()

	src, err := New(openTestDB(t, 0), WithTable("missing"))
	if err != nil {
		t.Fatal(err)
	}
	recs, err := stream.Single(context.Background(), Logged(src, log))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := recs.Next(); err == nil {
		t.Fatal("expected error")
	}
	last := hook.LastEntry()
	if last == nil {
		t.Fatal("nothing logged")
	}
	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["op"] == "select" {
			warned = true
		}
	}
	if !warned {
		t.Error("select failure not logged at warn level")
	}
}
