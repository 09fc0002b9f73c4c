package source

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"userstream/internal/stream"
)

// queryTexter is implemented by sources that can show the SQL they run.
type queryTexter interface {
	SelectSQL() string
	PageSQL() string
}

type logged struct {
	src stream.Source
	log logrus.FieldLogger
}

// Logged returns src with every lifecycle call and query logged at debug
// level. Failures are logged at warn level and returned unchanged.
func Logged(src stream.Source, log logrus.FieldLogger) stream.Source {
	return &logged{src: src, log: log}
}

func (l *logged) query(op string) logrus.FieldLogger {
	entry := l.log.WithField("op", op)
	if qt, ok := l.src.(queryTexter); ok {
		switch op {
		case "select":
			entry = entry.WithField("query", qt.SelectSQL())
		case "select page":
			entry = entry.WithField("query", qt.PageSQL())
		}
	}
	return entry
}

func (l *logged) Open(ctx context.Context) error {
	start := time.Now()
	err := l.src.Open(ctx)
	l.done(l.log.WithField("op", "open"), start, err)
	return err
}

func (l *logged) Select(ctx context.Context) (stream.Cursor, error) {
	entry := l.query("select")
	entry.Debug("executing query")
	start := time.Now()
	cur, err := l.src.Select(ctx)
	l.done(entry, start, err)
	if err != nil {
		return nil, err
	}
	return &loggedCursor{cur: cur, log: entry}, nil
}

func (l *logged) SelectPage(ctx context.Context, limit, offset int) (stream.Page, error) {
	entry := l.query("select page").WithFields(logrus.Fields{"limit": limit, "offset": offset})
	entry.Debug("executing query")
	start := time.Now()
	page, err := l.src.SelectPage(ctx, limit, offset)
	l.done(entry.WithField("rows", len(page)), start, err)
	return page, err
}

func (l *logged) Close() error {
	err := l.src.Close()
	l.done(l.log.WithField("op", "close"), time.Time{}, err)
	return err
}

func (l *logged) done(entry logrus.FieldLogger, start time.Time, err error) {
	if !start.IsZero() {
		entry = entry.WithField("elapsed", time.Since(start))
	}
	if err != nil {
		entry.WithError(err).Warn("source call failed")
		return
	}
	entry.Debug("ok")
}

type loggedCursor struct {
	cur   stream.Cursor
	log   logrus.FieldLogger
	total int
}

func (c *loggedCursor) FetchMany(n int) ([]stream.Record, error) {
	rows, err := c.cur.FetchMany(n)
	if err != nil {
		c.log.WithError(err).Warn("fetch failed")
		return nil, err
	}
	c.total += len(rows)
	c.log.WithFields(logrus.Fields{"chunk": n, "rows": len(rows)}).Debug("fetched chunk")
	return rows, nil
}

func (c *loggedCursor) Close() error {
	c.log.WithField("total", c.total).Debug("cursor closed")
	return c.cur.Close()
}
