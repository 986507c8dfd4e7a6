package daterange

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrInvalidRange = errors.New("daterange: end must not be before start")
)

const day = 24 * time.Hour

// Range represents an inclusive span of calendar days [Start, End].
// Both bounds are normalized to UTC midnight; time-of-day carries no meaning
// for blocking purposes.
type Range struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) (Range, error) {
	r := Range{Start: Midnight(start), End: Midnight(end)}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// FromExclusiveEnd builds a Range from an event whose end date follows the
// exclusive-end convention (the day after the last blocked day). The result
// is clamped so a zero-length event still blocks its start day.
func FromExclusiveEnd(start, endExclusive time.Time) Range {
	s := Midnight(start)
	e := Midnight(endExclusive).Add(-day)
	if e.Before(s) {
		e = s
	}
	return Range{Start: s, End: e}
}

// Midnight truncates t to UTC midnight of the same calendar day.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (r Range) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return ErrInvalidRange
	}
	if r.End.Before(r.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Normalize returns the range with both bounds truncated to UTC midnight.
func (r Range) Normalize() Range {
	return Range{Start: Midnight(r.Start), End: Midnight(r.End)}
}

func (r Range) Nights() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// Overlaps reports whether two inclusive day ranges share at least one day.
func (r Range) Overlaps(other Range) bool {
	return !r.Start.After(other.End) && !r.End.Before(other.Start)
}

// Adjacent reports whether other starts the day after r ends or vice versa,
// so the two spans cover consecutive days with no gap.
func (r Range) Adjacent(other Range) bool {
	return other.Start.Equal(r.End.Add(day)) || r.Start.Equal(other.End.Add(day))
}

func (r Range) ContainsDate(t time.Time) bool {
	t = Midnight(t)
	return !t.Before(r.Start) && !t.After(r.End)
}

// Merge coalesces an arbitrary set of ranges into a sorted list of
// non-overlapping spans. Ranges touching within one day are merged into a
// single span: a checkout day equal to the next check-in day must not show
// up as a spurious free gap. Invalid ranges (end before start) are dropped.
// Merge is idempotent.
func Merge(ranges []Range) []Range {
	cleaned := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		n := r.Normalize()
		if n.Validate() != nil {
			continue
		}
		cleaned = append(cleaned, n)
	}
	if len(cleaned) == 0 {
		return nil
	}

	sort.Slice(cleaned, func(i, j int) bool {
		return cleaned[i].Start.Before(cleaned[j].Start)
	})

	merged := make([]Range, 0, len(cleaned))
	current := cleaned[0]
	for _, next := range cleaned[1:] {
		if !next.Start.After(current.End.Add(day)) {
			if next.End.After(current.End) {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}
