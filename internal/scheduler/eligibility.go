package scheduler

import "github.com/jiak99/tour-scheduler/backend/internal/domain"

// Part-time guides split the day at 14:30: morning guides must be done by
// then, afternoon guides cannot start earlier.
const partTimeCutoffMinute = 14*60 + 30

// TypeAllowsSlot reports whether a guide type's working window accepts the
// slot's interval.
func TypeAllowsSlot(t domain.GuideType, slot domain.TourSlot) bool {
	iv := newInterval(slot.StartTime, slot.EndTime)
	switch t {
	case domain.GuideFullTime:
		return true
	case domain.GuidePartTimeMorning:
		return iv.end <= partTimeCutoffMinute
	case domain.GuidePartTimeAfternoon:
		return iv.start >= partTimeCutoffMinute
	default:
		return false
	}
}

// EligibleGuides returns the subset of the roster structurally allowed to take
// a slot on a day: active, type-compatible and not marked unavailable.
// unavailable holds the IDs with an is_available=false record for the date; a
// guide absent from the map is available. Roster order (by name, from the
// repository) is preserved so downstream tie-breaks stay deterministic. Other
// same-day assignments are deliberately not considered here; that is the
// validator's job.
func EligibleGuides(slot domain.TourSlot, roster []*domain.Guide, unavailable map[int64]bool) []*domain.Guide {
	var eligible []*domain.Guide
	for _, g := range roster {
		if !g.IsActive {
			continue
		}
		if !TypeAllowsSlot(g.Type, slot) {
			continue
		}
		if unavailable[g.ID] {
			continue
		}
		eligible = append(eligible, g)
	}
	return eligible
}
