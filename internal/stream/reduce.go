package stream

import (
	"errors"
	"io"
)

// Average consumes it and returns the mean of the numeric column field.
// An empty sequence averages to 0. it is always closed.
func Average(it RecordIterator, field string) (float64, error) {
	avg, _, err := Mean(it, field)
	return avg, err
}

// Mean is Average that also reports how many records were consumed, so a
// zero mean over rows can be told apart from an empty sequence.
func Mean(it RecordIterator, field string) (float64, int, error) {
	defer func() { _ = it.Close() }()

	if _, ok := (Record{}).Number(field); !ok {
		return 0, 0, invalidArg("column %q is not numeric", field)
	}
	var (
		total float64
		count int
	)
	for {
		rec, err := it.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, count, err
		}
		v, _ := rec.Number(field)
		total += v
		count++
	}
	if count == 0 {
		return 0, 0, nil
	}
	return total / float64(count), count, nil
}
