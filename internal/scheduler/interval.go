package scheduler

import (
	"fmt"
	"time"
)

// Operating hours, minutes from midnight. Tours start on the hour from 10:00
// to 20:00; the restaurant runs 10:00-21:30.
const (
	openingMinute       = 10 * 60
	lastTourStartMinute = 20 * 60
	closingMinute       = 21*60 + 30

	tourDurationMinutes = 90
)

// clockMinutes converts a "15:04:05" clock string to minutes from midnight.
// Catalog rows are validated on insert, so malformed values only show up on
// hand-edited data; they map to 0 rather than aborting a whole-day
// validation.
func clockMinutes(s string) int {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

type interval struct {
	start int
	end   int
}

func (iv interval) String() string {
	return formatMinutes(iv.start) + "-" + formatMinutes(iv.end)
}

func (iv interval) contains(minute int) bool {
	return iv.start <= minute && minute < iv.end
}

func newInterval(startClock, endClock string) interval {
	return interval{start: clockMinutes(startClock), end: clockMinutes(endClock)}
}

// gapBetween returns the signed gap in minutes between two intervals: the
// free time separating them when disjoint, 0 when back to back, negative when
// they overlap.
func gapBetween(a, b interval) int {
	if a.end <= b.start {
		return b.start - a.end
	}
	if b.end <= a.start {
		return a.start - b.end
	}
	// overlapping; report the (negative) overlap size
	overlapStart := max(a.start, b.start)
	overlapEnd := min(a.end, b.end)
	return -(overlapEnd - overlapStart)
}
