package output

import (
	"encoding/json"
	"errors"
	"io"

	"userstream/internal/stream"
)

// JSONL writes one compact JSON value per line.
func JSONL[T any](w io.Writer, it stream.Iterator[T]) error {
	enc := json.NewEncoder(w)
	for {
		v, err := it.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
}
