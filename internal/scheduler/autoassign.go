package scheduler

import (
	"slices"
	"sort"

	"github.com/jiak99/tour-scheduler/backend/internal/domain"
)

type AutoAssignOptions struct {
	FillStandby bool
}

type AutoAssignResult struct {
	AssignedCount      int      `json:"assignedCount"`
	UnfillableCount    int      `json:"unfillableCount"`
	UnfillableSessions []int64  `json:"unfillableSessions"`
	Errors             []string `json:"errors"`
}

// AutoAssignDay fills every unassigned session of a day in place, using as
// few distinct guides as it can, and reports the sessions no valid guide
// exists for. It degrades gracefully: an unfillable session is recorded and
// skipped, never fatal. The caller owns persistence and must hold the day
// exclusively for the duration of the run.
func AutoAssignDay(rules Rules, day *domain.TourDay, roster []*domain.Guide, unavailable map[int64]bool, opts AutoAssignOptions) AutoAssignResult {
	result := AutoAssignResult{
		UnfillableSessions: []int64{},
		Errors:             []string{},
	}

	var open []int // indices into day.Sessions
	for i := range day.Sessions {
		if day.Sessions[i].GuideID == nil {
			open = append(open, i)
		}
	}
	activeCount := 0
	for _, g := range roster {
		if g.IsActive {
			activeCount++
		}
	}
	// a fully assigned day is a no-op, not an error; the standby pick below
	// still runs
	if len(open) > 0 && activeCount == 0 {
		result.Errors = append(result.Errors, "no active guides available")
		for _, i := range open {
			result.UnfillableCount++
			result.UnfillableSessions = append(result.UnfillableSessions, day.Sessions[i].ID)
		}
		return result
	}

	// Per-guide tour count for the day; pre-existing manual assignments count
	// against the caps too.
	loads := make(map[int64]int)
	for i := range day.Sessions {
		if id := day.Sessions[i].GuideID; id != nil {
			loads[*id]++
		}
	}

	// Most constrained session first: fewest feasible guides, ties by start
	// time. Feasibility is re-checked at assignment time because every
	// assignment shrinks the remaining options.
	type sessionOption struct {
		index    int
		start    int
		feasible int
	}
	options := make([]sessionOption, 0, len(open))
	for _, i := range open {
		session := day.Sessions[i]
		feasible := 0
		for _, g := range EligibleGuides(session.Slot, roster, unavailable) {
			if candidateValid(rules, day, session, g, loads[g.ID]) {
				feasible++
			}
		}
		options = append(options, sessionOption{
			index:    i,
			start:    clockMinutes(session.Slot.StartTime),
			feasible: feasible,
		})
	}
	sort.Slice(options, func(a, b int) bool {
		if options[a].feasible != options[b].feasible {
			return options[a].feasible < options[b].feasible
		}
		return options[a].start < options[b].start
	})

	for _, opt := range options {
		session := day.Sessions[opt.index]

		var valid []*domain.Guide
		for _, g := range EligibleGuides(session.Slot, roster, unavailable) {
			if candidateValid(rules, day, session, g, loads[g.ID]) {
				valid = append(valid, g)
			}
		}
		if len(valid) == 0 {
			result.UnfillableCount++
			result.UnfillableSessions = append(result.UnfillableSessions, session.ID)
			continue
		}

		chosen := pickGuide(rules, day, session, valid, loads)

		day.Sessions[opt.index].GuideID = &chosen.ID
		loads[chosen.ID]++
		result.AssignedCount++
	}

	if opts.FillStandby && day.StandbyGuideID == nil {
		if standby := pickStandby(day, roster, unavailable, loads); standby != nil {
			day.StandbyGuideID = &standby.ID
		}
	}

	return result
}

// pickGuide prefers a guide who is already working that day and would not end
// up at the consecutive-run limit, ties broken towards higher current load so
// work concentrates on as few guides as possible. Only when no working guide
// qualifies does a fresh guide get pulled in (first eligible, roster order).
func pickGuide(rules Rules, day *domain.TourDay, session domain.TourSession, valid []*domain.Guide, loads map[int64]int) *domain.Guide {
	var best *domain.Guide
	bestBelowLimit := false
	for _, g := range valid {
		if loads[g.ID] == 0 {
			continue
		}
		belowLimit := consecutiveRunWith(rules, day, session, g.ID) < rules.MaxConsecutiveTours
		switch {
		case best == nil:
			best, bestBelowLimit = g, belowLimit
		case belowLimit && !bestBelowLimit:
			best, bestBelowLimit = g, belowLimit
		case belowLimit == bestBelowLimit && loads[g.ID] > loads[best.ID]:
			best = g
		}
	}
	if best != nil {
		return best
	}
	return valid[0]
}

// pickStandby chooses the available guide with the fewest assignments, ties
// broken by roster order. Guides already covering every session are excluded.
func pickStandby(day *domain.TourDay, roster []*domain.Guide, unavailable map[int64]bool, loads map[int64]int) *domain.Guide {
	var best *domain.Guide
	for _, g := range roster {
		if !g.IsActive || unavailable[g.ID] {
			continue
		}
		if loads[g.ID] >= len(day.Sessions) {
			continue
		}
		if best == nil || loads[g.ID] < loads[best.ID] {
			best = g
		}
	}
	return best
}

// candidateValid re-runs the full rule set for a hypothetical assignment
// against the day's current state: the pairwise checks of the validator plus
// the daily cap, the consecutive-run cap and the long-break requirement.
func candidateValid(rules Rules, day *domain.TourDay, session domain.TourSession, g *domain.Guide, load int) bool {
	if load >= rules.MaxToursPerDay {
		return false
	}
	if violations := ValidateAssignment(rules, session, g, day.Sessions, nil); len(violations) > 0 {
		return false
	}
	if consecutiveRunWith(rules, day, session, g.ID) > rules.MaxConsecutiveTours {
		return false
	}
	// A guide reaching a 3rd tour needs one real break in the day: some gap of
	// at least buffer+60 minutes between two of their tours.
	if load+1 >= 3 && !hasLongBreakWith(rules, day, session, g.ID) {
		return false
	}
	return true
}

// guideIntervalsWith collects the intervals of every session the guide holds
// that day plus the hypothetical one, sorted by start.
func guideIntervalsWith(day *domain.TourDay, session domain.TourSession, guideID int64) []interval {
	ivs := []interval{newInterval(session.Slot.StartTime, session.Slot.EndTime)}
	for _, other := range day.Sessions {
		if other.ID == session.ID || other.GuideID == nil || *other.GuideID != guideID {
			continue
		}
		ivs = append(ivs, newInterval(other.Slot.StartTime, other.Slot.EndTime))
	}
	slices.SortFunc(ivs, func(a, b interval) int { return a.start - b.start })
	return ivs
}

// consecutiveRunWith returns the length of the back-to-back run (adjacent
// tours separated by exactly the minimum buffer) that would contain the
// hypothetical session.
func consecutiveRunWith(rules Rules, day *domain.TourDay, session domain.TourSession, guideID int64) int {
	ivs := guideIntervalsWith(day, session, guideID)
	target := newInterval(session.Slot.StartTime, session.Slot.EndTime)

	pos := slices.IndexFunc(ivs, func(iv interval) bool { return iv == target })
	run := 1
	for i := pos; i > 0; i-- {
		if gapBetween(ivs[i-1], ivs[i]) != rules.MinBufferMinutes {
			break
		}
		run++
	}
	for i := pos; i < len(ivs)-1; i++ {
		if gapBetween(ivs[i], ivs[i+1]) != rules.MinBufferMinutes {
			break
		}
		run++
	}
	return run
}

// hasLongBreakWith reports whether the guide's day, including the
// hypothetical session, contains at least one gap long enough to count as a
// real break.
func hasLongBreakWith(rules Rules, day *domain.TourDay, session domain.TourSession, guideID int64) bool {
	ivs := guideIntervalsWith(day, session, guideID)
	if len(ivs) <= 1 {
		return true
	}
	for i := 0; i < len(ivs)-1; i++ {
		if gapBetween(ivs[i], ivs[i+1]) >= rules.LongBreakGapMinutes {
			return true
		}
	}
	return false
}
