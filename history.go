package drip

import (
	"iter"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
)

// History stores a chronological series of decimal values, each associated
// with a specific date. It ensures that dates are unique and the series is
// always sorted, so lookups can use binary search.
type History struct {
	days   []Date
	values []decimal.Decimal
}

// Len returns the number of points in the history.
func (h *History) Len() int { return len(h.days) }

// Append adds a point to the history.
//
// An existing value at that date is overwritten: the last data wins.
func (h *History) Append(on Date, v decimal.Decimal) *History {
	if i := slices.Index(h.days, on); i >= 0 {
		h.values[i] = v
		return h
	}
	h.days, h.values = append(h.days, on), append(h.values, v)
	h.sort()
	return h
}

// chronological is a private implementation to make this history chronologically sorted.
type chronological struct{ *History }

func (s chronological) Len() int           { return len(s.days) }
func (s chronological) Less(i, j int) bool { return s.days[i].Before(s.days[j]) }
func (s chronological) Swap(i, j int) {
	s.days[i], s.days[j] = s.days[j], s.days[i]
	s.values[i], s.values[j] = s.values[j], s.values[i]
}

func (h *History) sort() { sort.Sort(chronological{h}) }

// First returns the earliest date and value in the history.
// If the history is empty, it returns zero values.
func (h *History) First() (day Date, value decimal.Decimal) {
	if len(h.days) == 0 {
		return Date{}, decimal.Zero
	}
	return h.days[0], h.values[0]
}

// Latest returns the latest date and value in the history.
// If the history is empty, it returns zero values.
func (h *History) Latest() (day Date, value decimal.Decimal) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, decimal.Zero
	}
	return h.days[last], h.values[last]
}

// Get returns the value exactly at 'day' and true, or zero and false.
func (h *History) Get(day Date) (decimal.Decimal, bool) {
	if i := slices.Index(h.days, day); i >= 0 {
		return h.values[i], true
	}
	return decimal.Zero, false
}

// ValueAsOf returns the value on a given day, or the most recent value
// before it. It returns the value and true if found, otherwise zero and
// false.
func (h *History) ValueAsOf(day Date) (decimal.Decimal, bool) {
	// The days slice is sorted, so we can use binary search.
	i, found := slices.BinarySearchFunc(h.days, day, func(d, t Date) int {
		if d.After(t) {
			return 1
		}
		if d.Before(t) {
			return -1
		}
		return 0
	})
	if found {
		return h.values[i], true
	}
	// Not found. `i` is the index where `day` would be inserted, so the
	// value we want is at `i-1`, the last entry before the target date.
	if i == 0 {
		return decimal.Zero, false // No date on or before the given day.
	}
	return h.values[i-1], true
}

// Values returns an iterator over all date/value pairs in the history, in
// chronological order.
func (h *History) Values() iter.Seq2[Date, decimal.Decimal] {
	return func(yield func(Date, decimal.Decimal) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}
