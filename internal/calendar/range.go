package calendar

import (
	"errors"
	"fmt"
	"sort"
)

var ErrInvertedRange = errors.New("start date must be on or before end date")

// Range is a closed interval of days; both Start and End are included.
type Range struct {
	Start Date `json:"start_date"`
	End   Date `json:"end_date"`
}

// NewRange returns [start, end] or ErrInvertedRange.
func NewRange(start, end Date) (Range, error) {
	r := Range{Start: start, End: end}
	if !r.Valid() {
		return Range{}, fmt.Errorf("%w: %s > %s", ErrInvertedRange, start, end)
	}
	return r, nil
}

func (r Range) Valid() bool {
	return r.Start <= r.End
}

// Days is the inclusive number of days covered by r.
func (r Range) Days() int {
	return r.End.DaysSince(r.Start) + 1
}

// Contains reports whether o lies entirely within r.
func (r Range) Contains(o Range) bool {
	return r.Start <= o.Start && r.End >= o.End
}

// Includes reports whether day d falls inside r.
func (r Range) Includes(d Date) bool {
	return r.Start <= d && d <= r.End
}

// Overlaps reports whether r and o share at least one day: either boundary of
// o falls inside r, or o covers r completely.
func (r Range) Overlaps(o Range) bool {
	return r.Includes(o.Start) || r.Includes(o.End) || (o.Start <= r.Start && o.End >= r.End)
}

// Touches reports whether r and o overlap or sit on consecutive days.
func (r Range) Touches(o Range) bool {
	return o.Start <= r.End.AddDays(1) && r.Start <= o.End.AddDays(1)
}

// Intersect clips r to o. The second result is false when they do not overlap.
func (r Range) Intersect(o Range) (Range, bool) {
	if !r.Overlaps(o) {
		return Range{}, false
	}
	out := r
	if o.Start > out.Start {
		out.Start = o.Start
	}
	if o.End < out.End {
		out.End = o.End
	}
	return out, true
}

func (r Range) String() string {
	return fmt.Sprintf("[%s..%s]", r.Start, r.End)
}

// Merge returns the minimal sorted set covering ranges. Overlapping ranges and
// ranges on consecutive days collapse into one. The input is not modified.
func Merge(ranges []Range) []Range {
	if len(ranges) == 0 {
		return []Range{}
	}

	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	merged := []Range{sorted[0]}
	for _, next := range sorted[1:] {
		cur := &merged[len(merged)-1]
		if next.Start <= cur.End.AddDays(1) {
			if next.End > cur.End {
				cur.End = next.End
			}
			continue
		}
		merged = append(merged, next)
	}
	return merged
}

// Subtract removes every day of removal from set. A stored range partially
// covered by removal keeps the part before removal.Start and the part after
// removal.End.
func Subtract(set []Range, removal Range) []Range {
	out := make([]Range, 0, len(set)+1)
	for _, r := range set {
		if !r.Overlaps(removal) {
			out = append(out, r)
			continue
		}
		if r.Start < removal.Start {
			out = append(out, Range{Start: r.Start, End: removal.Start.AddDays(-1)})
		}
		if r.End > removal.End {
			out = append(out, Range{Start: removal.End.AddDays(1), End: r.End})
		}
	}
	return out
}

// SubtractAll applies Subtract for each removal in order.
func SubtractAll(set []Range, removals []Range) []Range {
	out := set
	for _, rm := range removals {
		out = Subtract(out, rm)
	}
	return out
}

// Clip returns the parts of set that fall inside window, in set order.
func Clip(set []Range, window Range) []Range {
	out := make([]Range, 0, len(set))
	for _, r := range set {
		if c, ok := r.Intersect(window); ok {
			out = append(out, c)
		}
	}
	return out
}

// AnyContains reports whether a single range in set covers want.
func AnyContains(set []Range, want Range) bool {
	for _, r := range set {
		if r.Contains(want) {
			return true
		}
	}
	return false
}
