package tui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/existflow/timeline/internal/ledger"
)

// truncate shortens a string to max runes with ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// anniversaryLabel describes a recurring projection, e.g. "58th, in 109 days"
func anniversaryLabel(p ledger.Projection) string {
	when := "today"
	switch {
	case p.DaysUntil == 1:
		when = "tomorrow"
	case p.DaysUntil > 1:
		when = fmt.Sprintf("in %d days", p.DaysUntil)
	}
	if p.Years <= 0 {
		return when
	}
	return humanize.Ordinal(p.Years) + ", " + when
}

// relative describes t as seen from now, e.g. "3 days from now"
func relative(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// spanLabel describes a duration's extent
func spanLabel(s ledger.Span) string {
	const layout = "Jan 2, 2006"
	switch {
	case s.Complete():
		label := fmt.Sprintf("%s → %s", s.Start.Format(layout), s.Stop.Format(layout))
		if years := ledger.YearsBetween(*s.Start, *s.Stop); years != 0 {
			label += fmt.Sprintf(" (%d yrs)", years)
		}
		if !s.Chronological() {
			label += " ⚠"
		}
		return label
	case s.Start != nil:
		return s.Start.Format(layout) + " → …"
	case s.Stop != nil:
		return "… → " + s.Stop.Format(layout)
	}
	return ""
}
