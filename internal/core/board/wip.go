package board

import "github.com/colonyops/planboard/internal/core/config"

// Style markers set on buckets by the WIP evaluator.
const (
	StyleExceeded      = "wip-exceeded"
	StyleTodayExceeded = "today-wip-exceeded"
)

// Style returns StyleExceeded when the limit is enabled and the bucket holds
// more todos than it allows.
func Style(b Bucket, wip config.WIPLimit) string {
	if wip.Enabled && len(b.Todos) > wip.DailyLimit {
		return StyleExceeded
	}
	return ""
}

// TodayStyle evaluates the limit against the open todos of the whole today
// group, independent of the per-column styles.
func TodayStyle(today []Bucket, wip config.WIPLimit) string {
	if !wip.Enabled {
		return ""
	}

	seen := map[string]bool{}
	for _, b := range today {
		for _, t := range b.Todos {
			if !t.Status.IsDone() {
				seen[t.ID] = true
			}
		}
	}

	if len(seen) > wip.DailyLimit {
		return StyleTodayExceeded
	}
	return ""
}

// ApplyWIP styles the today columns, the aggregated today group and the
// daily brackets. Weekly, monthly and catch-all buckets span more than a day
// and are not evaluated against a daily limit.
func ApplyWIP(b *Board, wip config.WIPLimit) {
	for i := range b.Today {
		b.Today[i].Style = Style(b.Today[i], wip)
	}
	b.TodayStyle = TodayStyle(b.Today, wip)

	for i := range b.Columns {
		if b.Columns[i].Icon == IconDay {
			b.Columns[i].Style = Style(b.Columns[i], wip)
		}
	}
}
