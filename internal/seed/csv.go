package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"userstream/internal/stream"
)

// maxAge is the largest value the DECIMAL(5, 0) age column holds.
const maxAge = 99999

// CSV reads user_data records from header-keyed CSV. Columns may appear in
// any order; user_id may be omitted or blank, in which case a random UUID
// is assigned.
type CSV struct {
	r    *csv.Reader
	cols map[string]int
	line int
}

var requiredCols = []string{"name", "email", "age"}

// ReadCSV consumes the header row of r.
func ReadCSV(r io.Reader) (*CSV, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("seed: csv: missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("seed: csv: header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredCols {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("seed: csv: missing column %q", c)
		}
	}
	return &CSV{r: cr, cols: cols, line: 1}, nil
}

func (c *CSV) Next() (stream.Record, error) {
	row, err := c.r.Read()
	if errors.Is(err, io.EOF) {
		return stream.Record{}, io.EOF
	}
	c.line++
	if err != nil {
		return stream.Record{}, fmt.Errorf("seed: csv: line %d: %w", c.line, err)
	}
	rec := stream.Record{
		UserID: c.field(row, "user_id"),
		Name:   c.field(row, "name"),
		Email:  c.field(row, "email"),
	}
	if rec.UserID == "" {
		rec.UserID = uuid.NewString()
	}
	ageText := c.field(row, "age")
	age, err := strconv.ParseFloat(ageText, 64)
	if err != nil || math.IsNaN(age) || math.IsInf(age, 0) || age < 0 || age > maxAge {
		return stream.Record{}, fmt.Errorf("seed: csv: line %d: invalid age %q", c.line, ageText)
	}
	rec.Age = int(age)
	return rec, nil
}

func (c *CSV) Close() error { return nil }

func (c *CSV) field(row []string, name string) string {
	i, ok := c.cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
