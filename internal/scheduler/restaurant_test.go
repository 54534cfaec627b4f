package scheduler

import (
	"testing"

	"github.com/jiak99/tour-scheduler/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullRestaurantRoster() []*domain.RestaurantStaff {
	return []*domain.RestaurantStaff{
		testStaff(1, "Farah Aziz", domain.StaffKitchen),
		testStaff(2, "Gopal Nair", domain.StaffKitchen),
		testStaff(3, "Hana Wong", domain.StaffKitchen),
		testStaff(4, "Ivan Chia", domain.StaffKitchen),
		testStaff(5, "Jia Ying", domain.StaffServing),
		testStaff(6, "Kiran Das", domain.StaffServing),
		testStaff(7, "Leia Koh", domain.StaffServing),
		testStaff(8, "Marcus Yeo", domain.StaffServing),
	}
}

func TestAssignRestaurantDayMixedFullRoster(t *testing.T) {
	rules := DefaultRules()
	day := testRestaurantDay(domain.PatternMixed)
	staff := fullRestaurantRoster()

	result := AssignRestaurantDay(day, staff, nil)

	assert.Equal(t, 4, result.KitchenAssigned)
	assert.Equal(t, 4, result.ServingAssigned)
	assert.Equal(t, 8, result.TotalStaff)
	assert.Equal(t, 0, result.UnfillableCount)
	assert.Empty(t, result.Errors)

	report := ValidateRestaurantDay(rules, day, staff, nil)
	assert.True(t, report.OK())
	assert.Equal(t, 100.0, report.CoveragePercent)

	can, violations := CanPublishRestaurantDay(rules, day, staff, nil)
	assert.True(t, can)
	assert.Empty(t, violations)
}

func TestAssignRestaurantDayAll8hCoverage(t *testing.T) {
	rules := DefaultRules()
	day := testRestaurantDay(domain.PatternAll8h)
	staff := fullRestaurantRoster()

	result := AssignRestaurantDay(day, staff, nil)
	require.Equal(t, 8, result.TotalStaff)

	report := ValidateRestaurantDay(rules, day, staff, nil)
	assert.True(t, report.OK())
}

// A single kitchen worker can never satisfy the two-cook minimum, so every
// sampled instant of the operating window is a gap.
func TestValidateRestaurantDaySingleKitchenWorker(t *testing.T) {
	rules := DefaultRules()
	day := testRestaurantDay(domain.PatternMixed)
	staff := []*domain.RestaurantStaff{
		testStaff(1, "Farah Aziz", domain.StaffKitchen),
		testStaff(5, "Jia Ying", domain.StaffServing),
		testStaff(6, "Kiran Das", domain.StaffServing),
		testStaff(7, "Leia Koh", domain.StaffServing),
		testStaff(8, "Marcus Yeo", domain.StaffServing),
	}

	result := AssignRestaurantDay(day, staff, nil)
	assert.Equal(t, 1, result.KitchenAssigned)
	assert.Equal(t, 4, result.ServingAssigned)
	assert.Equal(t, 3, result.UnfillableCount)

	report := ValidateRestaurantDay(rules, day, staff, nil)
	assert.False(t, report.OK())
	require.Len(t, report.General, 1)
	assert.Equal(t, "3 shift(s) not assigned to any staff", report.General[0])
	// 10:00 through 21:00 inclusive, every half hour
	assert.Len(t, report.Gaps, 23)
	assert.InDelta(t, 62.5, report.CoveragePercent, 0.01)

	can, _ := CanPublishRestaurantDay(rules, day, staff, nil)
	assert.False(t, can)
}

func TestAssignRestaurantDayPoolExhaustion(t *testing.T) {
	day := testRestaurantDay(domain.PatternMixed)
	staff := []*domain.RestaurantStaff{
		testStaff(1, "Farah Aziz", domain.StaffKitchen),
		testStaff(2, "Gopal Nair", domain.StaffKitchen),
	}

	result := AssignRestaurantDay(day, staff, nil)

	assert.Equal(t, 2, result.KitchenAssigned)
	assert.Equal(t, 0, result.ServingAssigned)
	assert.Equal(t, 6, result.UnfillableCount)
	assert.Contains(t, result.Errors, "no available serving staff")

	// nobody holds two shifts even when the pool is short
	seen := make(map[int64]bool)
	for _, shift := range day.Shifts {
		if shift.StaffID == nil {
			continue
		}
		assert.False(t, seen[*shift.StaffID])
		seen[*shift.StaffID] = true
	}
}

func TestAssignRestaurantDaySkipsUnavailable(t *testing.T) {
	day := testRestaurantDay(domain.PatternMixed)
	staff := fullRestaurantRoster()

	result := AssignRestaurantDay(day, staff, map[int64]bool{2: true})

	assert.Equal(t, 3, result.KitchenAssigned)
	assert.Equal(t, 1, result.UnfillableCount)
	for _, shift := range day.Shifts {
		if shift.StaffID != nil {
			assert.NotEqual(t, int64(2), *shift.StaffID)
		}
	}
}

func TestAssignRestaurantDayClearsPreviousRun(t *testing.T) {
	day := testRestaurantDay(domain.PatternMixed)
	day.Shifts[0].StaffID = ptr(99)
	staff := fullRestaurantRoster()

	AssignRestaurantDay(day, staff, nil)

	for _, shift := range day.Shifts {
		require.NotNil(t, shift.StaffID)
		assert.NotEqual(t, int64(99), *shift.StaffID)
	}
}

func TestAssignRestaurantDayEmptyDay(t *testing.T) {
	day := &domain.RestaurantDay{ID: 1, Date: testDate()}

	result := AssignRestaurantDay(day, fullRestaurantRoster(), nil)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "no shift instances found for this date", result.Errors[0])
}

func TestValidateRestaurantDayShiftViolations(t *testing.T) {
	rules := DefaultRules()
	day := testRestaurantDay(domain.PatternMixed)

	staff := fullRestaurantRoster()
	AssignRestaurantDay(day, staff, nil)

	// shift 3 belongs to Hana after a full mixed assignment; she resigns
	staff[2].IsActive = false
	report := ValidateRestaurantDay(rules, day, staff, map[int64]bool{4: true})

	require.Contains(t, report.Shifts, int64(3))
	assert.Contains(t, report.Shifts[3][0], "not active")
	require.Contains(t, report.Shifts, int64(4))
	assert.Contains(t, report.Shifts[4][0], "unavailable")
}

func TestValidateRestaurantDayDuplicateHolder(t *testing.T) {
	rules := DefaultRules()
	day := testRestaurantDay(domain.PatternMixed)
	staff := fullRestaurantRoster()

	AssignRestaurantDay(day, staff, nil)
	day.Shifts[1].StaffID = ptr(1) // same person as shift 1

	report := ValidateRestaurantDay(rules, day, staff, nil)

	require.Contains(t, report.Shifts, int64(2))
	assert.Contains(t, report.Shifts[2][0], "already holds another shift this day")
}

func TestValidateRestaurantDayTypeMismatch(t *testing.T) {
	rules := DefaultRules()
	day := testRestaurantDay(domain.PatternMixed)
	staff := fullRestaurantRoster()

	AssignRestaurantDay(day, staff, nil)
	day.Shifts[0].StaffID = ptr(5) // serving staff onto a kitchen shift

	report := ValidateRestaurantDay(rules, day, staff, nil)

	require.Contains(t, report.Shifts, int64(1))
	assert.Contains(t, report.Shifts[1][0], "serving staff assigned to a kitchen shift")
}

func TestPatternTemplates(t *testing.T) {
	mixed, ok := domain.PatternTemplates(domain.PatternMixed)
	require.True(t, ok)
	require.Len(t, mixed, 4)

	all8h, ok := domain.PatternTemplates(domain.PatternAll8h)
	require.True(t, ok)
	require.Len(t, all8h, 4)
	for _, tmpl := range all8h {
		assert.Equal(t, int32(8), tmpl.DurationHours)
	}

	_, ok = domain.PatternTemplates(domain.ShiftPattern("weekend"))
	assert.False(t, ok)
}
