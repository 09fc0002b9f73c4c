package stream

import (
	"context"
	"fmt"
)

// fakeSource serves rows from memory and counts lifecycle calls.
type fakeSource struct {
	rows []Record

	openErr   error
	selectErr error
	fetchErr  error // returned by the fetch after failAfter successful fetches
	failAfter int
	closeErr  error

	opens, closes, cursorCloses int
	fetches                     []int // requested chunk sizes
	pages                       [][2]int
	open                        bool
}

func (s *fakeSource) Open(context.Context) error {
	s.opens++
	if s.openErr != nil {
		return s.openErr
	}
	s.open = true
	return nil
}

func (s *fakeSource) Select(context.Context) (Cursor, error) {
	if !s.open {
		return nil, fmt.Errorf("select on closed source")
	}
	if s.selectErr != nil {
		return nil, s.selectErr
	}
	return &fakeCursor{src: s}, nil
}

func (s *fakeSource) SelectPage(_ context.Context, limit, offset int) (Page, error) {
	if !s.open {
		return nil, fmt.Errorf("select on closed source")
	}
	s.pages = append(s.pages, [2]int{limit, offset})
	if s.selectErr != nil {
		return nil, s.selectErr
	}
	if offset >= len(s.rows) {
		return Page{}, nil
	}
	end := min(offset+limit, len(s.rows))
	return append(Page(nil), s.rows[offset:end]...), nil
}

func (s *fakeSource) Close() error {
	s.closes++
	s.open = false
	return s.closeErr
}

type fakeCursor struct {
	src *fakeSource
	pos int
}

func (c *fakeCursor) FetchMany(n int) ([]Record, error) {
	c.src.fetches = append(c.src.fetches, n)
	if c.src.fetchErr != nil && len(c.src.fetches) > c.src.failAfter {
		return nil, c.src.fetchErr
	}
	end := min(c.pos+n, len(c.src.rows))
	out := append([]Record(nil), c.src.rows[c.pos:end]...)
	c.pos = end
	return out, nil
}

func (c *fakeCursor) Close() error {
	c.src.cursorCloses++
	return nil
}

// users builds n records with sequential ids and the given ages (cycled).
func users(n int, ages ...int) []Record {
	if len(ages) == 0 {
		ages = []int{30}
	}
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{
			UserID: fmt.Sprintf("%08d-0000-0000-0000-000000000000", i),
			Name:   fmt.Sprintf("user %d", i),
			Email:  fmt.Sprintf("user%d@example.com", i),
			Age:    ages[i%len(ages)],
		}
	}
	return out
}
