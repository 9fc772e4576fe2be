package board

import (
	"fmt"
	"time"

	"github.com/colonyops/planboard/internal/core/config"
	"github.com/colonyops/planboard/internal/core/daterange"
	"github.com/colonyops/planboard/internal/core/todo"
)

const (
	dailyBrackets   = 6
	weeklyBrackets  = 4
	monthlyBrackets = 3
)

// Icons attached to generated buckets.
const (
	IconTodo       = "circle"
	IconInProgress = "clock"
	IconDone       = "check"
	IconBacklog    = "inbox"
	IconPast       = "history"
	IconDay        = "calendar-day"
	IconWeek       = "calendar-week"
	IconMonth      = "calendar-range"
	IconLater      = "calendar-clock"
)

// Generate buckets items relative to the calendar day of now. Items are
// expected to be filtered already; see the filter package.
func Generate(items []todo.Item, settings config.Settings, now time.Time) Board {
	g := generator{
		items:    items,
		settings: settings,
		today:    daterange.Day(now),
	}

	b := Board{
		Date:    g.today,
		Today:   g.todayGroup(),
		Columns: g.mainSequence(),
	}
	ApplyWIP(&b, settings.WIPLimit)
	return b
}

type generator struct {
	items    []todo.Item
	settings config.Settings
	today    time.Time
}

func statusIn(statuses ...todo.Status) func(todo.Status) bool {
	return func(s todo.Status) bool {
		for _, st := range statuses {
			if s == st {
				return true
			}
		}
		return false
	}
}

func isOpen(s todo.Status) bool { return !s.IsDone() }

// query returns the items whose due date falls in r. With includeSelected, a
// selected item also qualifies when it is open, or when it is done and its
// completed date falls in r.
func (g generator) query(r daterange.Range, includeSelected bool, keep func(todo.Status) bool) []todo.Item {
	attrs := g.settings.Attributes
	out := []todo.Item{}

	for _, item := range g.items {
		if keep != nil && !keep(item.Status) {
			continue
		}

		in := r.Contains(daterange.DateOf(item, attrs.Due))
		if !in && includeSelected && todo.IsSelected(item, attrs.Selected) {
			if item.Status.IsDone() {
				in = r.Contains(daterange.DateOf(item, attrs.Completed))
			} else {
				in = true
			}
		}

		if in {
			out = append(out, item)
		}
	}

	return out
}

func (g generator) todayGroup() []Bucket {
	r := daterange.Span(g.today, 1)

	return []Bucket{
		{
			Key:   KeyTodayTodo,
			Icon:  IconTodo,
			Title: "Todo",
			Range: r,
			Todos: g.query(r, true, statusIn(todo.StatusTodo)),
			Drop:  &DropTarget{Due: g.today, Status: todo.StatusTodo},
		},
		{
			Key:   KeyTodayInProgress,
			Icon:  IconInProgress,
			Title: "In progress",
			Range: r,
			Todos: g.query(r, true, statusIn(todo.StatusAttentionRequired, todo.StatusDelegated, todo.StatusInProgress)),
			Drop:  &DropTarget{Due: g.today, Status: todo.StatusInProgress},
		},
		{
			Key:   KeyTodayDone,
			Icon:  IconDone,
			Title: "Done",
			Range: r,
			Todos: g.query(r, true, statusIn(todo.StatusCanceled, todo.StatusComplete)),
			Drop:  &DropTarget{Due: g.today, Status: todo.StatusComplete},
		},
	}
}

func (g generator) mainSequence() []Bucket {
	buckets := []Bucket{g.backlog(), g.past()}

	daily, end := g.daily(daterange.AddDays(g.today, 1))
	buckets = append(buckets, daily...)

	weekly, end := g.weekly(end)
	buckets = append(buckets, weekly...)

	monthly, end := g.monthly(end)
	buckets = append(buckets, monthly...)

	return append(buckets, g.later(end))
}

func (g generator) backlog() Bucket {
	attrs := g.settings.Attributes
	todos := []todo.Item{}
	for _, item := range g.items {
		if !daterange.DateOf(item, attrs.Due).IsZero() {
			continue
		}
		if todo.IsSelected(item, attrs.Selected) || item.Status.IsDone() {
			continue
		}
		todos = append(todos, item)
	}

	return Bucket{
		Key:   KeyBacklog,
		Icon:  IconBacklog,
		Title: "Backlog",
		Todos: todos,
		Drop:  &DropTarget{RemoveDue: true},
	}
}

func (g generator) past() Bucket {
	r := daterange.Range{To: g.today}
	return Bucket{
		Key:         KeyPast,
		Icon:        IconPast,
		Title:       "Past",
		Range:       r,
		Todos:       g.query(r, false, isOpen),
		HideIfEmpty: true,
	}
}

// daily emits one bucket per day starting at start until six have been
// emitted, skipping weekend days when they are hidden. The first emitted day
// is always titled "Tomorrow". It returns the end of the last emitted day.
func (g generator) daily(start time.Time) ([]Bucket, time.Time) {
	buckets := make([]Bucket, 0, dailyBrackets)
	cursor := start

	for len(buckets) < dailyBrackets {
		day := cursor
		cursor = daterange.AddDays(cursor, 1)

		if !g.settings.ShowWeekends && daterange.LocalWeekday(day, g.settings.FirstWeekday) >= 6 {
			continue
		}

		title := fmt.Sprintf("%s %s", day.Weekday(), daterange.ShortDate(day))
		if len(buckets) == 0 {
			title = "Tomorrow"
		}

		r := daterange.Span(day, 1)
		buckets = append(buckets, Bucket{
			Key:         "day." + daterange.Format(day),
			Icon:        IconDay,
			Title:       title,
			Range:       r,
			Todos:       g.query(r, true, nil),
			HideIfEmpty: g.settings.HideEmpty,
			Drop:        &DropTarget{Due: day},
		})
	}

	return buckets, cursor
}

func (g generator) weekly(notBefore time.Time) ([]Bucket, time.Time) {
	startOfWeek := daterange.StartOfWeek(g.today, g.settings.FirstWeekday)
	buckets := make([]Bucket, 0, weeklyBrackets)
	end := notBefore

	for i := range weeklyBrackets {
		from := daterange.AddDays(startOfWeek, 7*(i+1))
		r := clip(daterange.Span(from, 7), end)

		title := "Next week"
		if i > 0 {
			title = fmt.Sprintf("Week +%d (%s)", i+1, spanLabel(r))
		}

		buckets = append(buckets, g.bracket(fmt.Sprintf("week.%d", i+1), IconWeek, title, r))
		end = maxDay(end, r.To)
	}

	return buckets, end
}

func (g generator) monthly(notBefore time.Time) ([]Bucket, time.Time) {
	buckets := make([]Bucket, 0, monthlyBrackets)
	end := notBefore

	for i := range monthlyBrackets {
		r := daterange.Range{
			From: daterange.AddMonths(g.today, i+1),
			To:   daterange.AddMonths(g.today, i+2),
		}
		if i == 0 && r.From.After(end) {
			// The weekly brackets can stop short of the next month.
			r.From = end
		}
		r = clip(r, end)

		title := "Next month"
		if i > 0 {
			title = fmt.Sprintf("Month +%d (%s)", i+1, spanLabel(r))
		}

		buckets = append(buckets, g.bracket(fmt.Sprintf("month.%d", i+1), IconMonth, title, r))
		end = maxDay(end, r.To)
	}

	return buckets, end
}

func (g generator) later(from time.Time) Bucket {
	r := daterange.Range{From: from}
	return Bucket{
		Key:         KeyLater,
		Icon:        IconLater,
		Title:       "Later",
		Range:       r,
		Todos:       g.query(r, true, nil),
		HideIfEmpty: g.settings.HideEmpty,
		Drop:        &DropTarget{Due: from},
	}
}

// bracket builds a weekly or monthly bucket. A bracket swallowed entirely by
// the brackets before it keeps its slot but accepts no drops.
func (g generator) bracket(key, icon, title string, r daterange.Range) Bucket {
	b := Bucket{
		Key:         key,
		Icon:        icon,
		Title:       title,
		Range:       r,
		Todos:       []todo.Item{},
		HideIfEmpty: g.settings.HideEmpty,
	}
	if r.Empty() {
		b.HideIfEmpty = true
		return b
	}
	b.Todos = g.query(r, true, nil)
	b.Drop = &DropTarget{Due: r.From}
	return b
}

// clip moves the start of r forward so it does not overlap anything before
// notBefore.
func clip(r daterange.Range, notBefore time.Time) daterange.Range {
	if r.From.Before(notBefore) {
		r.From = notBefore
	}
	if r.To.Before(r.From) {
		r.To = r.From
	}
	return r
}

func maxDay(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

func spanLabel(r daterange.Range) string {
	if r.Empty() {
		return daterange.ShortDate(r.From)
	}
	return fmt.Sprintf("%s - %s", daterange.ShortDate(r.From), daterange.ShortDate(daterange.AddDays(r.To, -1)))
}
