// Package history queries saved weighings: period presets, the summary shown
// above the list, and the report of a single saved weighing.
package history

import (
	"fmt"
	"time"

	"github.com/roach88/balanca/internal/model"
)

// Period is a named date range preset.
type Period string

const (
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	PeriodWeek      Period = "week"  // last 7 days and today
	PeriodMonth     Period = "month" // one calendar month back and today
	PeriodCustom    Period = "custom"
)

// DefaultPeriod is the preset selected when none is given.
const DefaultPeriod = PeriodWeek

// ParsePeriod accepts a preset name; empty selects DefaultPeriod.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case "":
		return DefaultPeriod, nil
	case PeriodToday, PeriodYesterday, PeriodWeek, PeriodMonth, PeriodCustom:
		return p, nil
	}
	return "", fmt.Errorf("unknown period %q (want today, yesterday, week, month or custom)", s)
}

// Range is a creation-time window. Start is inclusive; End names the last
// included day. Nil bounds are open.
type Range struct {
	Start *time.Time
	End   *time.Time
}

// Range resolves the preset relative to now. from and to are used only by
// PeriodCustom, as the first and last included days; either may be nil.
func (p Period) Range(now time.Time, from, to *time.Time) (Range, error) {
	today := startOfDay(now)
	switch p {
	case PeriodToday:
		return Range{Start: &today, End: &today}, nil
	case PeriodYesterday:
		y := today.AddDate(0, 0, -1)
		return Range{Start: &y, End: &y}, nil
	case PeriodWeek:
		start := today.AddDate(0, 0, -7)
		return Range{Start: &start, End: &today}, nil
	case PeriodMonth:
		start := today.AddDate(0, -1, 0)
		return Range{Start: &start, End: &today}, nil
	case PeriodCustom:
		var r Range
		if from != nil {
			s := startOfDay(*from)
			r.Start = &s
		}
		if to != nil {
			e := startOfDay(*to)
			r.End = &e
		}
		if r.Start != nil && r.End != nil && r.End.Before(*r.Start) {
			return Range{}, fmt.Errorf("custom period: end %s is before start %s",
				r.End.Format(time.DateOnly), r.Start.Format(time.DateOnly))
		}
		return r, nil
	}
	return Range{}, fmt.Errorf("unknown period %q", p)
}

// Filter builds the store filter for this range, optionally narrowed to one
// buyer.
func (r Range) Filter(buyerID string) model.WeighingFilter {
	return model.WeighingFilter{Start: r.Start, End: r.End, BuyerID: buyerID}
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && !t.Before(model.DayAfter(*r.End)) {
		return false
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
