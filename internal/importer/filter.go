package importer

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvertedDateRange indicates a range filter whose lower bound follows
// its upper bound.
var ErrInvertedDateRange = errors.New("importer: date range from is after to")

// DateFilter restricts imported rows by calendar date. The zero value is
// inactive and admits every row. While any filter is active, rows without a
// parseable date are excluded: absence cannot satisfy a filter.
type DateFilter struct {
	from *time.Time
	to   *time.Time
}

// NewSingleDateFilter admits only rows logged on exactly the given day.
func NewSingleDateFilter(dayOf time.Time) DateFilter {
	bound := truncateToDay(dayOf)
	return DateFilter{from: &bound, to: &bound}
}

// NewRangeDateFilter admits rows whose date falls within [from, to]
// inclusive, after normalizing time-of-day away.
func NewRangeDateFilter(from, to time.Time) (DateFilter, error) {
	lower := truncateToDay(from)
	upper := truncateToDay(to)
	if lower.After(upper) {
		return DateFilter{}, fmt.Errorf("%w: %s > %s", ErrInvertedDateRange,
			lower.Format("2006-01-02"), upper.Format("2006-01-02"))
	}
	return DateFilter{from: &lower, to: &upper}, nil
}

// Active reports whether the filter constrains anything.
func (f DateFilter) Active() bool {
	return f.from != nil
}

// Includes reports whether a row logged on the given day passes the filter.
func (f DateFilter) Includes(dayOf time.Time) bool {
	if !f.Active() {
		return true
	}
	day := truncateToDay(dayOf)
	return !day.Before(*f.from) && !day.After(*f.to)
}

func truncateToDay(moment time.Time) time.Time {
	return time.Date(moment.Year(), moment.Month(), moment.Day(), 0, 0, 0, 0, moment.Location())
}
