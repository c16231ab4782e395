package contract

import (
	"fmt"
	"strings"
)

// Row is one contract record as read from the table: an ordered, fixed-width
// sequence of cell values. Cells keep the type the source produced
// (string, float64, time.Time, nil).
type Row []any

// Cell returns the value at position i, or nil when the row is too short.
func (r Row) Cell(i int) any {
	if i < 0 || i >= len(r) {
		return nil
	}
	return r[i]
}

// Text returns the cell at position i rendered as trimmed text.
func (r Row) Text(i int) string {
	v := r.Cell(i)
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// Layout maps the fields the notifier cares about to 0-based row positions.
type Layout struct {
	AddressIndex int
	StatusIndex  int
	ExpiryIndex  int
}

// DefaultLayout matches the "dash" sheet: address in the first column of the
// block, status at 11, expiry date at 13.
var DefaultLayout = Layout{
	AddressIndex: 0,
	StatusIndex:  11,
	ExpiryIndex:  13,
}

func (l Layout) Address(r Row) string { return r.Text(l.AddressIndex) }
func (l Layout) Status(r Row) string  { return r.Text(l.StatusIndex) }
func (l Layout) Expiry(r Row) any     { return r.Cell(l.ExpiryIndex) }

// Validate checks every position fits inside a row of width columns.
func (l Layout) Validate(width int) error {
	for name, idx := range map[string]int{
		"address": l.AddressIndex,
		"status":  l.StatusIndex,
		"expiry":  l.ExpiryIndex,
	} {
		if idx < 0 || idx >= width {
			return fmt.Errorf("%s column index %d outside row of %d columns", name, idx, width)
		}
	}
	return nil
}
