package output

import (
	"io"
	"os"

	"golang.org/x/term"
)

// isattyFn allows overriding terminal detection in tests.
var isattyFn = isTerminal

// DetectFormat resolves the output format for w. A non-empty flag wins;
// otherwise a terminal gets a table and anything else (pipe, file, buffer)
// gets one JSON value per line.
func DetectFormat(w io.Writer, flag string) string {
	if flag != "" {
		return flag
	}
	if isattyFn(w) {
		return FormatTable
	}
	return FormatJSONL
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
