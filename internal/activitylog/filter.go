package activitylog

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the layout accepted for custom range boundaries.
const DateLayout = "2006-01-02"

// Period selects the date window applied to record timestamps.
type Period string

const (
	PeriodAll        Period = "all"
	PeriodLast7Days  Period = "7"
	PeriodLast30Days Period = "30"
	PeriodCustom     Period = "custom"
)

// ParsePeriod resolves a period from user input. Empty input means PeriodAll.
func ParsePeriod(value string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(value))) {
	case "", PeriodAll:
		return PeriodAll, nil
	case PeriodLast7Days:
		return PeriodLast7Days, nil
	case PeriodLast30Days:
		return PeriodLast30Days, nil
	case PeriodCustom:
		return PeriodCustom, nil
	default:
		return "", fmt.Errorf("unknown period %q", value)
	}
}

// Criteria is the filter state of a report session.
type Criteria struct {
	Period Period
	// RangeStart and RangeEnd hold raw YYYY-MM-DD input. Unparseable values
	// disable their boundary.
	RangeStart string
	RangeEnd   string
	Kinds      KindSet
	ActorQuery string
	BookQuery  string
}

// Filter returns the records that pass every active predicate, in input order.
func Filter(records []Record, criteria Criteria, now time.Time) []Record {
	window := newPeriodWindow(criteria, now)
	actorQuery := strings.ToLower(criteria.ActorQuery)
	bookQuery := strings.ToLower(criteria.BookQuery)

	out := make([]Record, 0, len(records))
	for _, record := range records {
		if !window.contains(record.Timestamp) {
			continue
		}
		if !criteria.Kinds.Has(record.Kind) {
			continue
		}
		if actorQuery != "" && !strings.Contains(strings.ToLower(record.Actor), actorQuery) {
			continue
		}
		if bookQuery != "" && !strings.Contains(strings.ToLower(record.BookTitle), bookQuery) {
			continue
		}
		out = append(out, record)
	}
	return out
}

type periodWindow struct {
	now     time.Time
	maxDays float64
	start   *time.Time
	end     *time.Time
}

func newPeriodWindow(criteria Criteria, now time.Time) periodWindow {
	window := periodWindow{now: now}

	switch criteria.Period {
	case PeriodLast7Days:
		window.maxDays = 7
	case PeriodLast30Days:
		window.maxDays = 30
	case PeriodCustom:
		if start, ok := parseBoundary(criteria.RangeStart, now.Location()); ok {
			window.start = &start
		}
		if end, ok := parseBoundary(criteria.RangeEnd, now.Location()); ok {
			end = end.Add(23*time.Hour + 59*time.Minute)
			window.end = &end
		}
	}

	return window
}

func (w periodWindow) contains(ts time.Time) bool {
	if w.maxDays > 0 {
		diffDays := w.now.Sub(ts).Hours() / 24
		if diffDays > w.maxDays {
			return false
		}
	}
	if w.start != nil && ts.Before(*w.start) {
		return false
	}
	if w.end != nil && ts.After(*w.end) {
		return false
	}
	return true
}

func parseBoundary(value string, loc *time.Location) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	parsed, err := time.ParseInLocation(DateLayout, trimmed, loc)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
