// Package calendar exports a timeline as iCalendar: every event becomes a yearly
// all-day anniversary and every complete duration a timed event.
package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/existflow/timeline/internal/ledger"
	"github.com/existflow/timeline/internal/model"
	"github.com/teambition/rrule-go"
)

// ProductID identifies the exporter in PRODID
const ProductID = "-//existflow//timeline//EN"

// Build assembles the calendar. stamp is written as DTSTAMP on every component.
func Build(events []model.Event, spans map[string]ledger.Span, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)

	view := append([]model.Event{}, events...)
	ledger.SortChronological(view)
	for _, ev := range view {
		if ev.Today || ev.Draft {
			continue
		}
		cal.Children = append(cal.Children, anniversary(ev, stamp))
	}

	for _, span := range ledger.SortedSpans(spans) {
		if !span.Complete() || !span.Chronological() {
			continue
		}
		cal.Children = append(cal.Children, duration(span, stamp))
	}
	return cal
}

// Export writes the session's events and durations to w
func Export(w io.Writer, s *ledger.Session, stamp time.Time) error {
	cal := Build(s.Events(), s.Durations(), stamp)
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

func anniversary(ev model.Event, stamp time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, ev.ID+"@timeline")
	ve.Props.SetText(ical.PropSummary, ev.Text)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	ve.Props.SetDate(ical.PropDateTimeStart, ev.Timestamp)
	ve.Props.SetRecurrenceRule(&rrule.ROption{Freq: rrule.YEARLY})

	desc := "Originally " + ev.DisplayDate()
	if len(ev.Tags) > 0 {
		desc += "\nTags: " + strings.Join(ev.Tags, ", ")
	}
	ve.Props.SetText(ical.PropDescription, desc)
	return ve
}

func duration(span ledger.Span, stamp time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, "duration-"+strings.ReplaceAll(span.Name, " ", "-")+"@timeline")
	ve.Props.SetText(ical.PropSummary, span.Name)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, *span.Start)
	ve.Props.SetDateTime(ical.PropDateTimeEnd, *span.Stop)
	return ve
}

// Occurrences lists the anniversaries of original falling in [from, to], as a calendar
// client expanding the exported RRULE would
func Occurrences(original, from, to time.Time) []time.Time {
	rule, err := rrule.NewRRule(rrule.ROption{Freq: rrule.YEARLY, Dtstart: original})
	if err != nil {
		return nil
	}
	return rule.Between(from, to, true)
}
