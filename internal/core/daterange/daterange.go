// Package daterange provides calendar-day arithmetic and half-open interval
// tests against the date-valued attributes of a todo item.
//
// A date is a time.Time at midnight UTC. The zero time means "no date".
package daterange

import (
	"strings"
	"time"

	"github.com/colonyops/planboard/internal/core/todo"
)

// Layout is the canonical attribute date format.
const Layout = "2006-01-02"

var parseLayouts = []string{
	Layout,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// Day truncates t to its calendar day, taken in t's own location.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Format renders a day in the canonical layout. The zero day renders empty.
func Format(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(Layout)
}

// Parse reads a calendar date. Values carrying a time of day are truncated to
// the day they name. Returns false for anything unparsable.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), true
		}
	}
	return time.Time{}, false
}

// DateOf reads the named attribute of item as a date. Missing or malformed
// values yield the zero time; they are never an error.
func DateOf(item todo.Item, attr string) time.Time {
	v, ok := item.Attribute(attr)
	if !ok {
		return time.Time{}
	}
	d, _ := Parse(v)
	return d
}

// Range is a half-open, lower-inclusive interval of days. A zero bound is
// unbounded on that side.
type Range struct {
	From time.Time
	To   time.Time
}

// Unbounded returns a range covering every date.
func Unbounded() Range { return Range{} }

// Span returns the range [from, from+days).
func Span(from time.Time, days int) Range {
	return Range{From: from, To: AddDays(from, days)}
}

// Contains reports whether d falls inside the range. A zero d ("no date")
// is never contained.
func (r Range) Contains(d time.Time) bool {
	if d.IsZero() {
		return false
	}
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && !d.Before(r.To) {
		return false
	}
	return true
}

// Empty reports whether a bounded range holds no day at all.
func (r Range) Empty() bool {
	return !r.From.IsZero() && !r.To.IsZero() && !r.From.Before(r.To)
}

// InRange is the functional form of Range.Contains.
func InRange(d time.Time, r Range) bool {
	return r.Contains(d)
}

// AddDays moves d by n calendar days.
func AddDays(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, n)
}

// StartOfMonth returns the first day of d's month.
func StartOfMonth(d time.Time) time.Time {
	y, m, _ := d.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths moves the first of d's month by n months.
func AddMonths(d time.Time, n int) time.Time {
	return StartOfMonth(d).AddDate(0, n, 0)
}

// ISOWeekday returns 1 for Monday through 7 for Sunday.
func ISOWeekday(d time.Time) int {
	wd := int(d.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// LocalWeekday returns the 1-based position of d within a week that begins
// on firstWeekday (ISO numbering).
func LocalWeekday(d time.Time, firstWeekday int) int {
	return ((ISOWeekday(d)-firstWeekday+7)%7 + 1)
}

// StartOfWeek returns the most recent day on or before today whose ISO
// weekday equals firstWeekday.
func StartOfWeek(today time.Time, firstWeekday int) time.Time {
	offset := (ISOWeekday(today) - firstWeekday + 7) % 7
	return AddDays(today, -offset)
}

// ShortDate renders dd/mm for bucket labels.
func ShortDate(d time.Time) string {
	return d.Format("02/01")
}
