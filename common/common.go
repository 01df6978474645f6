package common

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical textual form of a trading day
const DateLayout = "2006-01-02"

var (
	// ErrNilPointer is returned when a required pointer argument is nil
	ErrNilPointer = errors.New("nil pointer")
	// ErrInvalidDateRange is returned when a range ends before it starts
	ErrInvalidDateRange = errors.New("invalid date range")
	// ErrInvalidDate is returned when a date string cannot be parsed
	ErrInvalidDate = errors.New("invalid date")

	dateLayouts = []string{DateLayout, "2006/01/02", "20060102"}
)

// Day returns t truncated to midnight UTC of its calendar day
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a trading day from its components
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a day in any of the supported layouts
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for i := range dateLayouts {
		t, err := time.Parse(dateLayouts[i], s)
		if err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w %q", ErrInvalidDate, s)
}

// FormatDate renders a day in DateLayout
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateRange is an inclusive span of trading days. A zero Start or End leaves
// that side unbounded.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange returns a validated inclusive range
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: Day(start), End: Day(end)}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// Validate ensures the end does not precede the start
func (r DateRange) Validate() error {
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return fmt.Errorf("%w %s to %s", ErrInvalidDateRange, FormatDate(r.Start), FormatDate(r.End))
	}
	return nil
}

// Contains reports whether t falls inside the range, both ends inclusive
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// String implements fmt.Stringer
func (r DateRange) String() string {
	start, end := "-", "-"
	if !r.Start.IsZero() {
		start = FormatDate(r.Start)
	}
	if !r.End.IsZero() {
		end = FormatDate(r.End)
	}
	return start + " to " + end
}
