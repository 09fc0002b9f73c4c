package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"userstream/internal/stream"
)

// JSON writes the sequence as one indented JSON array, streaming elements
// as they are pulled. An empty sequence prints as [].
func JSON[T any](w io.Writer, it stream.Iterator[T]) error {
	first, err := it.Next()
	if errors.Is(err, io.EOF) {
		_, err = fmt.Fprintln(w, "[]")
		return err
	}
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "["); err != nil {
		return err
	}
	cur := first
	for {
		next, nextErr := it.Next()
		if nextErr != nil && !errors.Is(nextErr, io.EOF) {
			return nextErr
		}
		data, err := json.MarshalIndent(cur, "  ", "  ")
		if err != nil {
			return err
		}
		suffix := ","
		if nextErr != nil {
			suffix = ""
		}
		if _, err := fmt.Fprintf(w, "  %s%s\n", data, suffix); err != nil {
			return err
		}
		if nextErr != nil {
			break
		}
		cur = next
	}
	_, err = fmt.Fprintln(w, "]")
	return err
}
