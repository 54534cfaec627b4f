package scheduler

import (
	"fmt"

	"github.com/jiak99/tour-scheduler/backend/internal/domain"
)

type RestaurantAssignResult struct {
	KitchenAssigned  int      `json:"kitchenAssigned"`
	ServingAssigned  int      `json:"servingAssigned"`
	TotalStaff       int      `json:"totalStaff"`
	UnfillableCount  int      `json:"unfillableCount"`
	UnfillableShifts []int64  `json:"unfillableShifts"`
	Errors           []string `json:"errors"`
}

// AssignRestaurantDay clears the day's assignments and refills the fixed
// shift instances per staff type from the available pool, one shift per
// person per day. Shifts are drawn from a small fixed catalog, so there is no
// gap or overlap logic here; coverage is validated separately. Instances left
// over after the pool runs dry are reported as unfillable.
func AssignRestaurantDay(day *domain.RestaurantDay, staff []*domain.RestaurantStaff, unavailable map[int64]bool) RestaurantAssignResult {
	result := RestaurantAssignResult{
		UnfillableShifts: []int64{},
		Errors:           []string{},
	}

	for i := range day.Shifts {
		day.Shifts[i].StaffID = nil
	}

	if len(day.Shifts) == 0 {
		result.Errors = append(result.Errors, "no shift instances found for this date")
		return result
	}

	used := make(map[int64]bool)
	for _, staffType := range []domain.StaffType{domain.StaffKitchen, domain.StaffServing} {
		pool := availablePool(staff, staffType, unavailable)
		next := 0

		for i := range day.Shifts {
			if day.Shifts[i].StaffType != staffType {
				continue
			}
			for next < len(pool) && used[pool[next].ID] {
				next++
			}
			if next >= len(pool) {
				result.UnfillableCount++
				result.UnfillableShifts = append(result.UnfillableShifts, day.Shifts[i].ID)
				continue
			}

			day.Shifts[i].StaffID = &pool[next].ID
			used[pool[next].ID] = true
			switch staffType {
			case domain.StaffKitchen:
				result.KitchenAssigned++
			default:
				result.ServingAssigned++
			}
		}

		if len(pool) == 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("no available %s staff", staffType))
		}
	}

	result.TotalStaff = result.KitchenAssigned + result.ServingAssigned
	return result
}

// availablePool returns the active, available staff of one type in roster
// order (the repository orders by type then name).
func availablePool(staff []*domain.RestaurantStaff, staffType domain.StaffType, unavailable map[int64]bool) []*domain.RestaurantStaff {
	var pool []*domain.RestaurantStaff
	for _, s := range staff {
		if s.Type != staffType || !s.IsActive || unavailable[s.ID] {
			continue
		}
		pool = append(pool, s)
	}
	return pool
}
