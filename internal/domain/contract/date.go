package contract

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// CalendarDate is a day on the calendar with no time-of-day component.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf takes the calendar date of t in t's own location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// Equal compares the (day, month, year) triples.
func (d CalendarDate) Equal(o CalendarDate) bool {
	return d.Year == o.Year && d.Month == o.Month && d.Day == o.Day
}

func (d CalendarDate) IsZero() bool { return d == CalendarDate{} }

// Time returns midnight of the date in loc.
func (d CalendarDate) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

var ErrEmptyExpiry = errors.New("expiry cell is empty")

// MalformedDateError is returned for a non-blank expiry cell that is not a date.
type MalformedDateError struct {
	Value any
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("malformed expiry date %q", fmt.Sprint(e.Value))
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"1/2/2006",
	"1/2/2006 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// ParseExpiry interprets a cell value as a calendar date. Zone-less values are
// read in loc; time.Time values are converted to loc first. Numbers are
// spreadsheet serial dates.
func ParseExpiry(v any, loc *time.Location) (CalendarDate, error) {
	if loc == nil {
		loc = time.Local
	}
	switch val := v.(type) {
	case nil:
		return CalendarDate{}, ErrEmptyExpiry
	case time.Time:
		if val.IsZero() {
			return CalendarDate{}, ErrEmptyExpiry
		}
		return DateOf(val.In(loc)), nil
	case *time.Time:
		if val == nil {
			return CalendarDate{}, ErrEmptyExpiry
		}
		return ParseExpiry(*val, loc)
	case float64:
		return fromSerial(val, v)
	case float32:
		return fromSerial(float64(val), v)
	case int:
		return fromSerial(float64(val), v)
	case int64:
		return fromSerial(float64(val), v)
	case string:
		return parseExpiryText(val, loc)
	case []byte:
		return parseExpiryText(string(val), loc)
	default:
		return CalendarDate{}, &MalformedDateError{Value: v}
	}
}

func parseExpiryText(s string, loc *time.Location) (CalendarDate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CalendarDate{}, ErrEmptyExpiry
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromSerial(f, s)
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return DateOf(t.In(loc)), nil
		}
	}
	return CalendarDate{}, &MalformedDateError{Value: s}
}

// maxSerial is 9999-12-31, the last date spreadsheets can hold.
const maxSerial = 2958465

// fromSerial reads a spreadsheet serial number (days since 1899-12-30).
// Fractions are the time of day and are dropped.
func fromSerial(serial float64, raw any) (CalendarDate, error) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 1 || serial >= maxSerial+1 {
		return CalendarDate{}, &MalformedDateError{Value: raw}
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return CalendarDate{}, &MalformedDateError{Value: raw}
	}
	return DateOf(t), nil
}
