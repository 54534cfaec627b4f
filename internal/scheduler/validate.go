package scheduler

import (
	"fmt"
	"slices"

	"github.com/jiak99/tour-scheduler/backend/internal/domain"
)

// DayReport is the structured result of whole-day validation: violations that
// apply to the day as a whole plus violations keyed by session ID.
type DayReport struct {
	General  []string           `json:"general"`
	Sessions map[int64][]string `json:"sessions"`

	// CoveragePercent is the share of sessions holding an assignment,
	// informational only.
	CoveragePercent float64 `json:"coveragePercent"`
}

func (r DayReport) OK() bool {
	return len(r.General) == 0 && len(r.Sessions) == 0
}

// Flatten merges general and per-session violations into one list, for
// callers that only need a yes/no plus messages (the publish gate).
func (r DayReport) Flatten() []string {
	all := make([]string, 0, len(r.General))
	all = append(all, r.General...)
	for _, s := range sortedSessionIDs(r.Sessions) {
		all = append(all, r.Sessions[s]...)
	}
	return all
}

func sortedSessionIDs(m map[int64][]string) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// GuidesByID indexes a roster for the repeated person lookups the validator
// and scheduler do.
func GuidesByID(roster []*domain.Guide) map[int64]*domain.Guide {
	m := make(map[int64]*domain.Guide, len(roster))
	for _, g := range roster {
		m[g.ID] = g
	}
	return m
}

func typeLabel(t domain.GuideType) string {
	switch t {
	case domain.GuideFullTime:
		return "full-time"
	case domain.GuidePartTimeMorning:
		return "part-time morning"
	case domain.GuidePartTimeAfternoon:
		return "part-time afternoon"
	default:
		return string(t)
	}
}

// ValidateAssignment checks one session's assignment. daySessions is the full
// session set of the same day, used to find the guide's other tours; the
// session itself is matched out by ID so the function also works for
// hypothetical assignments built from an existing session. An unassigned
// session yields no violations. The function never fails: every problem is a
// message in the returned list.
func ValidateAssignment(rules Rules, session domain.TourSession, guide *domain.Guide, daySessions []domain.TourSession, unavailable map[int64]bool) []string {
	var violations []string

	if guide == nil {
		return violations
	}

	slotIv := newInterval(session.Slot.StartTime, session.Slot.EndTime)

	if !guide.IsActive {
		violations = append(violations, fmt.Sprintf("guide %s is not active", guide.FullName))
	}

	if !TypeAllowsSlot(guide.Type, session.Slot) {
		violations = append(violations, fmt.Sprintf("%s guide cannot work the %s slot", typeLabel(guide.Type), slotIv))
	}

	if unavailable[guide.ID] {
		violations = append(violations, fmt.Sprintf("guide %s is marked as unavailable on this date", guide.FullName))
	}

	// pairwise gap rule against every other tour the guide holds that day
	for _, other := range daySessions {
		if other.ID == session.ID || other.GuideID == nil || *other.GuideID != guide.ID {
			continue
		}
		otherIv := newInterval(other.Slot.StartTime, other.Slot.EndTime)
		gap := gapBetween(slotIv, otherIv)
		switch {
		case gap < 0:
			violations = append(violations, fmt.Sprintf("overlaps with another assigned tour at %s", otherIv))
		case gap < rules.MinBufferMinutes:
			violations = append(violations, fmt.Sprintf("less than %d-minute break next to %s (gap: %d minutes)", rules.MinBufferMinutes, otherIv, gap))
		}
	}

	return violations
}

// ValidateDay validates a whole guide-domain ledger. It re-checks every
// assigned session, counts unassigned sessions and checks the standby pick.
// Publishing does not freeze a day, so callers must re-run this before acting
// on a previously clean report.
func ValidateDay(rules Rules, day *domain.TourDay, roster []*domain.Guide, unavailable map[int64]bool) DayReport {
	report := DayReport{
		General:  []string{},
		Sessions: map[int64][]string{},
	}

	byID := GuidesByID(roster)

	unassigned := 0
	for _, session := range day.Sessions {
		if session.GuideID == nil {
			unassigned++
			continue
		}

		guide, ok := byID[*session.GuideID]
		if !ok {
			report.Sessions[session.ID] = []string{fmt.Sprintf("assigned guide %d is not in the active roster", *session.GuideID)}
			continue
		}

		if violations := ValidateAssignment(rules, session, guide, day.Sessions, unavailable); len(violations) > 0 {
			report.Sessions[session.ID] = violations
		}
	}

	if unassigned > 0 {
		report.General = append(report.General, fmt.Sprintf("%d session(s) not assigned to any guide", unassigned))
	}
	if len(day.Sessions) > 0 {
		report.CoveragePercent = float64(len(day.Sessions)-unassigned) / float64(len(day.Sessions)) * 100
	}

	switch {
	case day.StandbyGuideID == nil:
		report.General = append(report.General, "no standby guide assigned")
	default:
		standby, ok := byID[*day.StandbyGuideID]
		switch {
		case !ok:
			report.General = append(report.General, "standby guide is not in the active roster")
		case !standby.IsActive:
			report.General = append(report.General, "standby guide is not active")
		case unavailable[standby.ID]:
			report.General = append(report.General, "standby guide is marked as unavailable")
		}
	}

	return report
}
