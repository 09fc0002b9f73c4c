package output

import (
	"fmt"
	"io"

	"userstream/internal/stream"
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
	FormatTable = "table"
)

// Formats lists the accepted format names.
var Formats = []string{FormatJSON, FormatJSONL, FormatCSV, FormatTable}

// Records writes every record of it in format. it is not closed.
func Records(w io.Writer, format string, it stream.RecordIterator) error {
	switch format {
	case FormatJSON:
		return JSON(w, it)
	case FormatJSONL:
		return JSONL(w, it)
	case FormatCSV:
		return CSV(w, it)
	case FormatTable:
		return Table(w, it)
	}
	return fmt.Errorf("output: unknown format %q", format)
}

// Pages writes every page of it in format. JSON and JSONL keep page
// boundaries as nested arrays; CSV flattens; tables get one block per page.
func Pages(w io.Writer, format string, it stream.Iterator[stream.Page]) error {
	switch format {
	case FormatJSON:
		return JSON(w, it)
	case FormatJSONL:
		return JSONL(w, it)
	case FormatCSV:
		return CSV(w, &flatPages{pages: it})
	case FormatTable:
		return PageTables(w, it)
	}
	return fmt.Errorf("output: unknown format %q", format)
}

// flatPages yields the records of successive pages.
type flatPages struct {
	pages stream.Iterator[stream.Page]
	cur   stream.Page
}

func (f *flatPages) Next() (stream.Record, error) {
	for len(f.cur) == 0 {
		p, err := f.pages.Next()
		if err != nil {
			return stream.Record{}, err
		}
		f.cur = p
	}
	rec := f.cur[0]
	f.cur = f.cur[1:]
	return rec, nil
}

func (f *flatPages) Close() error { return f.pages.Close() }
