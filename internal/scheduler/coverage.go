package scheduler

import (
	"fmt"

	"github.com/jiak99/tour-scheduler/backend/internal/domain"
)

// CoverageGap records one sampled instant where assigned headcount fell short
// of the required minimum for at least one staff type.
type CoverageGap struct {
	Time            string `json:"time"`
	Kitchen         int    `json:"kitchen"`
	Serving         int    `json:"serving"`
	RequiredKitchen int    `json:"requiredKitchen"`
	RequiredServing int    `json:"requiredServing"`
}

// RestaurantReport is the staff-domain counterpart of DayReport, with
// coverage shortfalls reported per sampled instant.
type RestaurantReport struct {
	General []string           `json:"general"`
	Shifts  map[int64][]string `json:"shifts"`
	Gaps    []CoverageGap      `json:"gaps"`

	// CoveragePercent is the share of shift instances holding an assignment,
	// informational only.
	CoveragePercent float64 `json:"coveragePercent"`
}

func (r RestaurantReport) OK() bool {
	return len(r.General) == 0 && len(r.Shifts) == 0 && len(r.Gaps) == 0
}

func (r RestaurantReport) Flatten() []string {
	all := make([]string, 0, len(r.General)+len(r.Gaps))
	all = append(all, r.General...)
	for _, id := range sortedSessionIDs(r.Shifts) {
		all = append(all, r.Shifts[id]...)
	}
	for _, gap := range r.Gaps {
		all = append(all, fmt.Sprintf("coverage gap at %s: kitchen %d/%d, serving %d/%d",
			gap.Time, gap.Kitchen, gap.RequiredKitchen, gap.Serving, gap.RequiredServing))
	}
	return all
}

// StaffByID indexes a staff roster by ID.
func StaffByID(staff []*domain.RestaurantStaff) map[int64]*domain.RestaurantStaff {
	m := make(map[int64]*domain.RestaurantStaff, len(staff))
	for _, s := range staff {
		m[s.ID] = s
	}
	return m
}

// CoverageByInstant counts the assigned staff per type at every sampled
// instant of the operating hours. An instant t is covered by a shift iff
// start <= t < end.
func CoverageByInstant(rules Rules, day *domain.RestaurantDay) map[int]map[domain.StaffType]int {
	coverage := make(map[int]map[domain.StaffType]int)
	for t := openingMinute; t < closingMinute; t += rules.CoverageSampleMinutes {
		coverage[t] = map[domain.StaffType]int{domain.StaffKitchen: 0, domain.StaffServing: 0}
	}

	for _, shift := range day.Shifts {
		if shift.StaffID == nil {
			continue
		}
		iv := newInterval(shift.StartTime, shift.EndTime)
		for t := range coverage {
			if iv.contains(t) {
				coverage[t][shift.StaffType]++
			}
		}
	}

	return coverage
}

// ValidateRestaurantDay validates a whole staff-domain ledger: every shift
// instance assigned to a fitting person, nobody on two shifts the same day,
// and the minimum concurrent headcount met at every sampled instant.
func ValidateRestaurantDay(rules Rules, day *domain.RestaurantDay, staff []*domain.RestaurantStaff, unavailable map[int64]bool) RestaurantReport {
	report := RestaurantReport{
		General: []string{},
		Shifts:  map[int64][]string{},
		Gaps:    []CoverageGap{},
	}

	byID := StaffByID(staff)

	unassigned := 0
	holders := make(map[int64]int)
	for _, shift := range day.Shifts {
		if shift.StaffID == nil {
			unassigned++
			continue
		}
		holders[*shift.StaffID]++

		var violations []string
		member, ok := byID[*shift.StaffID]
		switch {
		case !ok:
			violations = append(violations, fmt.Sprintf("assigned staff %d is not in the active roster", *shift.StaffID))
		default:
			if member.Type != shift.StaffType {
				violations = append(violations, fmt.Sprintf("%s staff assigned to a %s shift", member.Type, shift.StaffType))
			}
			if !member.IsActive {
				violations = append(violations, fmt.Sprintf("staff %s is not active", member.FullName))
			}
			if unavailable[member.ID] {
				violations = append(violations, fmt.Sprintf("staff %s is marked as unavailable on this date", member.FullName))
			}
			if holders[*shift.StaffID] > 1 {
				violations = append(violations, fmt.Sprintf("staff %s already holds another shift this day", member.FullName))
			}
		}
		if len(violations) > 0 {
			report.Shifts[shift.ID] = violations
		}
	}

	if unassigned > 0 {
		report.General = append(report.General, fmt.Sprintf("%d shift(s) not assigned to any staff", unassigned))
	}
	if len(day.Shifts) > 0 {
		report.CoveragePercent = float64(len(day.Shifts)-unassigned) / float64(len(day.Shifts)) * 100
	}

	coverage := CoverageByInstant(rules, day)
	for t := openingMinute; t < closingMinute; t += rules.CoverageSampleMinutes {
		kitchen := coverage[t][domain.StaffKitchen]
		serving := coverage[t][domain.StaffServing]
		if kitchen < rules.MinKitchenStaff || serving < rules.MinServingStaff {
			report.Gaps = append(report.Gaps, CoverageGap{
				Time:            formatMinutes(t),
				Kitchen:         kitchen,
				Serving:         serving,
				RequiredKitchen: rules.MinKitchenStaff,
				RequiredServing: rules.MinServingStaff,
			})
		}
	}

	return report
}
