package ical

import (
	"strings"
	"time"
)

// Event is one VEVENT from a calendar feed. DTEND follows the feed's
// exclusive-end convention for all-day events; callers convert to inclusive
// ranges before merging with other sources.
type Event struct {
	Start        time.Time
	EndExclusive time.Time
	Summary      string
}

// Parse extracts busy events from an iCalendar text body. Folded lines are
// unfolded first (RFC 5545: a line starting with space or tab continues the
// previous one). Events with missing or unparseable dates are skipped; a
// malformed event never fails the whole feed.
func Parse(body string) []Event {
	lines := unfold(strings.Split(normalizeNewlines(body), "\n"))

	var events []Event
	var inEvent bool
	var dtStart, dtEnd, summary string

	flush := func() {
		if dtStart == "" || dtEnd == "" {
			return
		}
		start, ok := parseDate(dtStart)
		if !ok {
			return
		}
		end, ok := parseDate(dtEnd)
		if !ok {
			return
		}
		events = append(events, Event{Start: start, EndExclusive: end, Summary: summary})
	}

	for _, line := range lines {
		switch {
		case line == "BEGIN:VEVENT":
			inEvent = true
			dtStart, dtEnd, summary = "", "", ""
			continue
		case line == "END:VEVENT":
			if inEvent {
				flush()
			}
			inEvent = false
			continue
		}
		if !inEvent {
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found || value == "" {
			continue
		}
		// Property parameters (DTSTART;VALUE=DATE:...) do not affect keying.
		key, _, _ = strings.Cut(key, ";")
		switch key {
		case "DTSTART":
			dtStart = value
		case "DTEND":
			dtEnd = value
		case "SUMMARY":
			summary = strings.TrimSpace(value)
		}
	}
	return events
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func unfold(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if len(out) > 0 && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) {
			out[len(out)-1] += strings.TrimLeft(line, " \t")
			continue
		}
		out = append(out, line)
	}
	return out
}

// parseDate handles the two shapes the feed emits: 8-digit all-day dates and
// basic-format date-time stamps with an optional trailing Z for UTC.
func parseDate(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)

	if t, err := time.ParseInLocation("20060102", value, time.UTC); err == nil {
		return t, true
	}
	for _, layout := range []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102T1504Z",
		"20060102T1504",
	} {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
