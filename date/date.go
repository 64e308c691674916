// Package date implements a calendar date with day granularity, as found in
// trade journal spreadsheets.
package date

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02"

// Layouts are the formats accepted by Parse, tried in order.
//
// Spreadsheets export dates in many shapes; ISO first, then the US style
// used by Google Sheets, then timestamps.
var Layouts = []string{
	"2006-1-2", // permissive ISO (allows single-digit month/day)
	"1/2/2006",
	"2006/1/2",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// DayFirst are the layouts of a sheet exported with a day-first locale.
var DayFirst = []string{
	"2006-1-2",
	"2/1/2006",
	"2.1.2006",
	"2006/1/2",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// LayoutsFor returns the layouts for a field order, "mdy" or "dmy".
// An empty order means "mdy".
func LayoutsFor(order string) ([]string, error) {
	switch strings.ToLower(order) {
	case "", "mdy":
		return Layouts, nil
	case "dmy":
		return DayFirst, nil
	}
	return nil, fmt.Errorf("unknown date order %q (valid: mdy, dmy)", order)
}

// Date represent a date with no lower than day granularity.
//
// The zero Date is used for "no date", for instance the exit date of a
// position still open.
type Date struct {
	y int
	m time.Month
	d int
}

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Of returns the Date of t in t's location.
func Of(t time.Time) Date { return New(t.Date()) }

// Today returns the current date.
func Today() Date { return Of(time.Now()) }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// Year returns current year.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns current day of the month.
func (d Date) Day() int { return d.d }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// DaysTo returns the number of days from d to x (negative if x is before d).
func (d Date) DaysTo(x Date) int {
	return int(x.time().Sub(d.time()).Hours() / 24)
}

// String format the date in its standard format, or "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(DateFormat)
}

// Parse parses a Date from a string using Layouts. An empty string returns the zero Date.
func Parse(str string) (Date, error) { return ParseIn(str, Layouts) }

// ParseIn is like Parse but tries layouts instead of Layouts.
func ParseIn(str string, layouts []string) (Date, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return Date{}, nil
	}
	for _, layout := range layouts {
		if on, err := time.Parse(layout, str); err == nil {
			return New(on.Date()), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q want format %q", str, DateFormat)
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// Min returns the earliest non zero date among a and b.
func Min(a, b Date) Date {
	switch {
	case a.IsZero():
		return b
	case b.IsZero():
		return a
	case b.Before(a):
		return b
	}
	return a
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
func (j *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	d, err := Parse(str)
	if err != nil {
		return err
	}
	*j = d
	return nil
}

func (j Date) MarshalJSON() ([]byte, error) {
	str := j.String()
	return json.Marshal(&str)
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
