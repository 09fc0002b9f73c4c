package stream

import (
	"context"
	"errors"
	"io"
)

// DefaultChunkSize is the number of rows Single requests per fetch.
const DefaultChunkSize = 1000

// Option configures Single.
type Option func(*options)

type options struct {
	chunkSize int
}

// WithChunkSize overrides DefaultChunkSize.
func WithChunkSize(n int) Option {
	return func(o *options) { o.chunkSize = n }
}

// lease brackets a source and its cursor so both are released exactly once.
type lease struct {
	src    Source
	cur    Cursor
	opened bool
	done   bool
}

func (l *lease) open(ctx context.Context) error {
	if err := l.src.Open(ctx); err != nil {
		l.done = true
		return sourceErr("open", err)
	}
	l.opened = true
	return nil
}

func (l *lease) release() error {
	if l.done {
		return nil
	}
	l.done = true
	var errs []error
	if l.cur != nil {
		if err := l.cur.Close(); err != nil {
			errs = append(errs, sourceErr("close cursor", err))
		}
		l.cur = nil
	}
	if l.opened {
		if err := l.src.Close(); err != nil {
			errs = append(errs, sourceErr("close", err))
		}
	}
	return errors.Join(errs...)
}

// state is the lifecycle shared by Records and Pages. Once err is set every
// further Next returns it.
type state struct {
	lease
	started bool
	err     error
}

// fail releases held resources and makes err sticky.
func (s *state) fail(err error) error {
	if cerr := s.release(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	s.err = err
	return err
}

// exhaust releases held resources and ends the sequence.
func (s *state) exhaust() error {
	if err := s.release(); err != nil {
		return s.fail(err)
	}
	s.err = io.EOF
	return io.EOF
}

// Close stops the sequence early. It is safe to call more than once and
// releases nothing if no row was ever pulled.
func (s *state) Close() error {
	if s.err == nil {
		s.err = io.EOF
	}
	return s.release()
}

// Records yields user_data rows one at a time, fetching them from the
// source in chunks.
type Records struct {
	state
	ctx       context.Context
	chunkSize int
	buf       []Record
	pos       int
}

// Single returns a lazy sequence over every row of src in stored order.
// Nothing is acquired until the first Next.
func Single(ctx context.Context, src Source, opts ...Option) (*Records, error) {
	o := options{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.chunkSize <= 0 {
		return nil, invalidArg("chunk size must be positive, got %d", o.chunkSize)
	}
	return &Records{
		state:     state{lease: lease{src: src}},
		ctx:       ctx,
		chunkSize: o.chunkSize,
	}, nil
}

func (r *Records) Next() (Record, error) {
	if r.err != nil {
		return Record{}, r.err
	}
	if !r.started {
		r.started = true
		if err := r.begin(); err != nil {
			return Record{}, r.fail(err)
		}
	}
	// a chunk is never empty here, so this loops at most once per call
	for r.pos >= len(r.buf) {
		chunk, err := r.cur.FetchMany(r.chunkSize)
		if err != nil {
			return Record{}, r.fail(sourceErr("fetch", err))
		}
		if len(chunk) == 0 {
			r.buf = nil
			return Record{}, r.exhaust()
		}
		r.buf, r.pos = chunk, 0
	}
	rec := r.buf[r.pos]
	r.pos++
	return rec, nil
}

func (r *Records) begin() error {
	if err := r.open(r.ctx); err != nil {
		return err
	}
	cur, err := r.src.Select(r.ctx)
	if err != nil {
		return sourceErr("select", err)
	}
	r.cur = cur
	return nil
}

// Close releases the cursor and source.
func (r *Records) Close() error {
	r.buf = nil
	return r.state.Close()
}

// Pages yields fixed-size pages addressed by LIMIT/OFFSET.
type Pages struct {
	state
	ctx    context.Context
	size   int
	offset int
}

// Paginate returns a lazy sequence of pages of pageSize records at offsets
// 0, pageSize, 2*pageSize and so on. It ends, without yielding, at the
// first empty page.
func Paginate(ctx context.Context, src Source, pageSize int) (*Pages, error) {
	if pageSize <= 0 {
		return nil, invalidArg("page size must be positive, got %d", pageSize)
	}
	return &Pages{
		state: state{lease: lease{src: src}},
		ctx:   ctx,
		size:  pageSize,
	}, nil
}

func (p *Pages) Next() (Page, error) {
	if p.err != nil {
		return nil, p.err
	}
	if !p.started {
		p.started = true
		if err := p.open(p.ctx); err != nil {
			return nil, p.fail(err)
		}
	}
	page, err := p.src.SelectPage(p.ctx, p.size, p.offset)
	if err != nil {
		return nil, p.fail(sourceErr("select page", err))
	}
	if len(page) == 0 {
		return nil, p.exhaust()
	}
	p.offset += p.size
	return page, nil
}

// Offset returns the offset of the next page to be requested.
func (p *Pages) Offset() int { return p.offset }
