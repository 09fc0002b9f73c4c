package stream

import "context"

// Source is a handle able to run the user_data selects.
// A Source is not safe for simultaneous consumers.
type Source interface {
	// Open acquires the connection the following queries run on.
	Open(ctx context.Context) error
	// Select runs the full ordered select and returns a cursor over it.
	Select(ctx context.Context) (Cursor, error)
	// SelectPage runs the select restricted to LIMIT limit OFFSET offset.
	SelectPage(ctx context.Context, limit, offset int) (Page, error)
	// Close releases the connection acquired by Open.
	Close() error
}

// Cursor hands back the rows of a Select in bounded chunks.
type Cursor interface {
	// FetchMany returns up to n rows; an empty result means exhausted.
	FetchMany(n int) ([]Record, error)
	Close() error
}
