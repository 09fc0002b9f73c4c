package output

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"

	"userstream/internal/stream"
)

// maxTableRows caps how many records a single table buffers.
const maxTableRows = 10000

// Table renders records as an aligned ASCII table. Column widths need every
// row, so at most maxTableRows are buffered; past that the table is cut
// with a warning on stderr and the rest of the sequence is not pulled.
func Table(w io.Writer, it stream.RecordIterator) error {
	return tableWriter(w, os.Stderr, it, maxTableRows)
}

func tableWriter(w, errOut io.Writer, it stream.RecordIterator, maxRows int) error {
	rows, truncated, err := collectRows(it, maxRows)
	if err != nil {
		return err
	}
	if truncated {
		_, _ = fmt.Fprintf(errOut, "warning: result truncated at %d rows\n", maxRows)
	}
	if len(rows) == 0 {
		return nil
	}
	renderTable(w, rows, "")
	return nil
}

// PageTables renders one table per page, captioned with its page number.
func PageTables(w io.Writer, it stream.Iterator[stream.Page]) error {
	for n := 1; ; n++ {
		page, err := it.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if n > 1 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		renderTable(w, page, fmt.Sprintf("page %d (%d rows)", n, len(page)))
	}
}

func collectRows(it stream.RecordIterator, maxRows int) ([]stream.Record, bool, error) {
	var rows []stream.Record
	for {
		rec, err := it.Next()
		if errors.Is(err, io.EOF) {
			return rows, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		if len(rows) >= maxRows {
			return rows, true, nil
		}
		rows = append(rows, rec)
	}
}

func renderTable(w io.Writer, rows []stream.Record, caption string) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(stream.Columns)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	if caption != "" {
		tw.SetCaption(true, caption)
	}
	for _, r := range rows {
		tw.Append(r.Strings())
	}
	tw.Render()
}
