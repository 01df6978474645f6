// Package timeseries provides an ordered, date keyed collection shared by
// prices, trades and portfolio valuations.
package timeseries

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgunay/techalyzer/common"
)

// ErrDuplicateDate is returned when an entry already exists for a date
var ErrDuplicateDate = errors.New("duplicate date")

// Entry is a single dated value
type Entry[T any] struct {
	Date  time.Time
	Value T
}

// Series is an ordered map of trading day to value. Dates are normalised to
// midnight UTC and kept ascending. The zero value is ready to use.
type Series[T any] struct {
	entries []Entry[T]
	index   map[time.Time]int
}

// FromEntries builds a series, rejecting duplicate dates
func FromEntries[T any](entries []Entry[T]) (*Series[T], error) {
	s := &Series[T]{}
	for i := range entries {
		if err := s.Insert(entries[i].Date, entries[i].Value); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Insert adds a value for a new date
func (s *Series[T]) Insert(date time.Time, v T) error {
	date = common.Day(date)
	if _, ok := s.index[date]; ok {
		return fmt.Errorf("%w %s", ErrDuplicateDate, common.FormatDate(date))
	}
	s.place(date, v)
	return nil
}

// Set adds or replaces the value for a date
func (s *Series[T]) Set(date time.Time, v T) {
	date = common.Day(date)
	if i, ok := s.index[date]; ok {
		s.entries[i].Value = v
		return
	}
	s.place(date, v)
}

func (s *Series[T]) place(date time.Time, v T) {
	if s.index == nil {
		s.index = make(map[time.Time]int)
	}
	n := len(s.entries)
	if n == 0 || s.entries[n-1].Date.Before(date) {
		s.entries = append(s.entries, Entry[T]{Date: date, Value: v})
		s.index[date] = n
		return
	}
	pos := sort.Search(n, func(i int) bool { return s.entries[i].Date.After(date) })
	s.entries = append(s.entries, Entry[T]{})
	copy(s.entries[pos+1:], s.entries[pos:])
	s.entries[pos] = Entry[T]{Date: date, Value: v}
	for i := pos; i < len(s.entries); i++ {
		s.index[s.entries[i].Date] = i
	}
}

// Get returns the value stored for date
func (s *Series[T]) Get(date time.Time) (T, bool) {
	i, ok := s.index[common.Day(date)]
	if !ok {
		var zero T
		return zero, false
	}
	return s.entries[i].Value, true
}

// Offset returns the entry n positions away from an existing date. Positive n
// looks forward, negative n looks back.
func (s *Series[T]) Offset(date time.Time, n int) (Entry[T], bool) {
	i, ok := s.index[common.Day(date)]
	if !ok {
		return Entry[T]{}, false
	}
	j := i + n
	if j < 0 || j >= len(s.entries) {
		return Entry[T]{}, false
	}
	return s.entries[j], true
}

// Len returns the number of entries
func (s *Series[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// At returns the i-th entry in date order
func (s *Series[T]) At(i int) Entry[T] {
	return s.entries[i]
}

// First returns the earliest entry
func (s *Series[T]) First() (Entry[T], bool) {
	if s.Len() == 0 {
		return Entry[T]{}, false
	}
	return s.entries[0], true
}

// Last returns the latest entry
func (s *Series[T]) Last() (Entry[T], bool) {
	if s.Len() == 0 {
		return Entry[T]{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Entries returns a copy of all entries in date order
func (s *Series[T]) Entries() []Entry[T] {
	if s.Len() == 0 {
		return nil
	}
	out := make([]Entry[T], len(s.entries))
	copy(out, s.entries)
	return out
}

// Dates returns all dates in order
func (s *Series[T]) Dates() []time.Time {
	out := make([]time.Time, s.Len())
	for i := range out {
		out[i] = s.entries[i].Date
	}
	return out
}

// Values returns all values in date order
func (s *Series[T]) Values() []T {
	out := make([]T, s.Len())
	for i := range out {
		out[i] = s.entries[i].Value
	}
	return out
}

// Slice returns a new series holding the entries within r
func (s *Series[T]) Slice(r common.DateRange) *Series[T] {
	out := &Series[T]{}
	for i := 0; i < s.Len(); i++ {
		if r.Contains(s.entries[i].Date) {
			out.place(s.entries[i].Date, s.entries[i].Value)
		}
	}
	return out
}

// MarshalJSON renders the series as an object keyed by YYYY-MM-DD. Keys sort
// lexically which matches date order.
func (s *Series[T]) MarshalJSON() ([]byte, error) {
	m := make(map[string]T, s.Len())
	for i := 0; i < s.Len(); i++ {
		m[common.FormatDate(s.entries[i].Date)] = s.entries[i].Value
	}
	return json.Marshal(m)
}

// UnmarshalJSON parses an object keyed by date
func (s *Series[T]) UnmarshalJSON(data []byte) error {
	var m map[string]T
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = Series[T]{}
	for k, v := range m {
		d, err := common.ParseDate(k)
		if err != nil {
			return err
		}
		if err := s.Insert(d, v); err != nil {
			return err
		}
	}
	return nil
}
