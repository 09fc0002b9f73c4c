package output

import (
	"encoding/csv"
	"errors"
	"io"

	"userstream/internal/stream"
)

// CSV writes a header row followed by one row per record, in the column
// order of the user_data table.
func CSV(w io.Writer, it stream.RecordIterator) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(stream.Columns); err != nil {
		return err
	}
	for {
		rec, err := it.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			cw.Flush()
			return err
		}
		if err := cw.Write(rec.Strings()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
