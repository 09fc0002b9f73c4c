package stream

// Predicate selects records.
type Predicate func(Record) bool

// AgeOver matches records whose age is strictly greater than n.
func AgeOver(n int) Predicate {
	return func(r Record) bool { return r.Age > n }
}

type filtered struct {
	inner RecordIterator
	pred  Predicate
}

// Filter returns the records of it matching pred, in order. Closing the
// result closes it.
func Filter(it RecordIterator, pred Predicate) RecordIterator {
	return &filtered{inner: it, pred: pred}
}

func (f *filtered) Next() (Record, error) {
	for {
		rec, err := f.inner.Next()
		if err != nil {
			return Record{}, err
		}
		if f.pred(rec) {
			return rec, nil
		}
	}
}

func (f *filtered) Close() error { return f.inner.Close() }
