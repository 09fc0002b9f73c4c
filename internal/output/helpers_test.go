package output

import (
	"errors"
	"io"

	"userstream/internal/stream"
)

// errIter yields items and then fails with err.
type errIter[T any] struct {
	items []T
	pos   int
	err   error
}

func (m *errIter[T]) Next() (T, error) {
	if m.pos >= len(m.items) {
		var zero T
		if m.err != nil {
			return zero, m.err
		}
		return zero, io.EOF
	}
	v := m.items[m.pos]
	m.pos++
	return v, nil
}

func (m *errIter[T]) Close() error { return nil }

var errBoom = errors.New("boom")

func sampleRecords() []stream.Record {
	return []stream.Record{
		{UserID: "00234e50-34eb-4ce2-94ec-26e3fa749796", Name: "Dan Altenwerth Jr.", Email: "Molly59@gmail.com", Age: 67},
		{UserID: "006bfede-724d-4cdd-a2a6-59700f40d0da", Name: "Glenda Wisozk", Email: "Miriam21@gmail.com", Age: 119},
		{UserID: "006e1f7f-90c2-45ad-8c1d-1275d594cc88", Name: "Daniel Fahey IV", Email: "Delia.Lesch11@hotmail.com", Age: 49},
	}
}
