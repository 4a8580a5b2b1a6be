package reservation

import (
	"fmt"
	"time"

	"reservation-engine/internal/pkg/clock"
)

const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// Interval is a half-open range of calendar dates: start is occupied, end is not.
type Interval struct {
	start time.Time
	end   time.Time
}

// NewInterval discards any time of day and requires start < end.
func NewInterval(start, end time.Time) (Interval, error) {
	if start.IsZero() || end.IsZero() {
		return Interval{}, ErrInvalidInterval
	}
	s, e := clock.Date(start), clock.Date(end)
	if !s.Before(e) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{start: s, end: e}, nil
}

// ParseInterval reads two YYYY-MM-DD dates.
func ParseInterval(start, end string) (Interval, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return Interval{}, ErrMalformedDate
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return Interval{}, ErrMalformedDate
	}
	return NewInterval(s, e)
}

func (iv Interval) Start() time.Time { return iv.start }
func (iv Interval) End() time.Time   { return iv.end }

func (iv Interval) IsZero() bool {
	return iv.start.IsZero() && iv.end.IsZero()
}

// Nights counts whole days between the two UTC midnights. Not via Sub: time.Duration caps at ~292 years.
func (iv Interval) Nights() int {
	return int((iv.end.Unix() - iv.start.Unix()) / secondsPerDay)
}

// Overlaps is the single conflict predicate: [a,b) and [c,d) overlap iff a < d && c < b.
// Touching intervals do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.start.Before(other.end) && other.start.Before(iv.end)
}

// Intersect clips iv to other.
func (iv Interval) Intersect(other Interval) (Interval, bool) {
	if !iv.Overlaps(other) {
		return Interval{}, false
	}
	start := iv.start
	if other.start.After(start) {
		start = other.start
	}
	end := iv.end
	if other.end.Before(end) {
		end = other.end
	}
	return Interval{start: start, end: end}, true
}

// Merge joins overlapping or touching intervals.
func (iv Interval) Merge(other Interval) (Interval, bool) {
	if iv.start.After(other.end) || other.start.After(iv.end) {
		return Interval{}, false
	}
	start := iv.start
	if other.start.Before(start) {
		start = other.start
	}
	end := iv.end
	if other.end.After(end) {
		end = other.end
	}
	return Interval{start: start, end: end}, true
}

// EndedBy reports whether the stay's end date is on or before the UTC calendar date of now.
func (iv Interval) EndedBy(now time.Time) bool {
	return !clock.Date(now.UTC()).Before(iv.end)
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%s,%s)", iv.start.Format(DateLayout), iv.end.Format(DateLayout))
}

// Money is an integral amount in currency minor units.
type Money struct {
	cents int64
}

func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

func (m Money) Cents() int64 {
	return m.cents
}
