package stream

import (
	"errors"
	"io"
	"iter"
)

// Iterator is a pull sequence. Next returns io.EOF once exhausted; Close
// releases whatever the sequence holds and may be called at any point.
type Iterator[T any] interface {
	Next() (T, error)
	Close() error
}

// RecordIterator streams records one at a time.
type RecordIterator = Iterator[Record]

// All adapts it to a range-over-func sequence. The iterator is closed when
// the loop ends, including on break. A non-EOF error is yielded once as the
// final element.
func All[T any](it Iterator[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer func() { _ = it.Close() }()
		for {
			v, err := it.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

// Collect drains it into a slice and closes it.
func Collect[T any](it Iterator[T]) ([]T, error) {
	var out []T
	for v, err := range All(it) {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

type sliceIter[T any] struct {
	items []T
	pos   int
}

// Slice returns an iterator over items.
func Slice[T any](items []T) Iterator[T] {
	return &sliceIter[T]{items: items}
}

func (s *sliceIter[T]) Next() (T, error) {
	if s.pos >= len(s.items) {
		var zero T
		return zero, io.EOF
	}
	v := s.items[s.pos]
	s.pos++
	return v, nil
}

func (s *sliceIter[T]) Close() error {
	s.pos = len(s.items)
	return nil
}

type taken[T any] struct {
	inner Iterator[T]
	left  int
}

// Take yields at most n elements of it. Reaching n closes it at once, so a
// source behind it is released without being drained.
func Take[T any](it Iterator[T], n int) Iterator[T] {
	return &taken[T]{inner: it, left: n}
}

func (t *taken[T]) Next() (T, error) {
	var zero T
	if t.left <= 0 {
		if err := t.inner.Close(); err != nil {
			return zero, err
		}
		return zero, io.EOF
	}
	v, err := t.inner.Next()
	if err != nil {
		return zero, err
	}
	t.left--
	return v, nil
}

func (t *taken[T]) Close() error { return t.inner.Close() }
