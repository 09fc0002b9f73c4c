package stream

import "strconv"

// Columns lists the user_data columns in their stored order.
var Columns = []string{"user_id", "name", "email", "age"}

// Record is one user_data row.
type Record struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Age    int    `json:"age"`
}

// Page is a group of records fetched by one LIMIT/OFFSET query.
type Page []Record

// Value returns the value of the named column.
func (r Record) Value(col string) (any, bool) {
	switch col {
	case "user_id":
		return r.UserID, true
	case "name":
		return r.Name, true
	case "email":
		return r.Email, true
	case "age":
		return r.Age, true
	}
	return nil, false
}

// Number returns the named column as a float64; ok is false for unknown
// and text columns.
func (r Record) Number(col string) (float64, bool) {
	v, _ := r.Value(col)
	n, ok := v.(int)
	return float64(n), ok
}

// Strings returns the column values formatted in Columns order.
func (r Record) Strings() []string {
	return []string{r.UserID, r.Name, r.Email, strconv.Itoa(r.Age)}
}
