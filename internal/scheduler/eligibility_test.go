package scheduler

import (
	"testing"

	"github.com/jiak99/tour-scheduler/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTourSlotCatalog(t *testing.T) {
	slots := TourSlotCatalog()

	require.Len(t, slots, 11)
	assert.Equal(t, "10:00:00", slots[0].StartTime)
	assert.Equal(t, "11:30:00", slots[0].EndTime)
	assert.Equal(t, "20:00:00", slots[10].StartTime)
	assert.Equal(t, "21:30:00", slots[10].EndTime)
	for _, slot := range slots {
		assert.Equal(t, int32(90), slot.DurationMinutes)
	}
}

func TestTypeAllowsSlot(t *testing.T) {
	morning := testSlot(1, "10:00:00", "11:30:00")
	straddling := testSlot(2, "13:00:00", "14:30:00")
	afternoon := testSlot(3, "15:00:00", "16:30:00")

	assert.True(t, TypeAllowsSlot(domain.GuideFullTime, morning))
	assert.True(t, TypeAllowsSlot(domain.GuideFullTime, afternoon))

	// morning guides must be done by 14:30
	assert.True(t, TypeAllowsSlot(domain.GuidePartTimeMorning, morning))
	assert.True(t, TypeAllowsSlot(domain.GuidePartTimeMorning, straddling))
	assert.False(t, TypeAllowsSlot(domain.GuidePartTimeMorning, afternoon))

	// afternoon guides cannot start before 14:30
	assert.False(t, TypeAllowsSlot(domain.GuidePartTimeAfternoon, morning))
	assert.False(t, TypeAllowsSlot(domain.GuidePartTimeAfternoon, straddling))
	assert.True(t, TypeAllowsSlot(domain.GuidePartTimeAfternoon, afternoon))
}

func TestEligibleGuides(t *testing.T) {
	slot := testSlot(1, "15:00:00", "16:30:00")

	inactive := testGuide(1, "Alice Tan", domain.GuideFullTime)
	inactive.IsActive = false
	roster := []*domain.Guide{
		inactive,
		testGuide(2, "Ben Lim", domain.GuideFullTime),
		testGuide(3, "Chloe Ong", domain.GuidePartTimeMorning),
		testGuide(4, "Dinesh Raj", domain.GuidePartTimeAfternoon),
		testGuide(5, "Ethan Goh", domain.GuideFullTime),
	}
	unavailable := map[int64]bool{5: true}

	eligible := EligibleGuides(slot, roster, unavailable)

	require.Len(t, eligible, 2)
	// roster order is preserved for deterministic tie-breaks
	assert.Equal(t, int64(2), eligible[0].ID)
	assert.Equal(t, int64(4), eligible[1].ID)
}

func TestEligibleGuidesAbsentAvailabilityMeansAvailable(t *testing.T) {
	slot := testSlot(1, "10:00:00", "11:30:00")
	roster := []*domain.Guide{testGuide(1, "Alice Tan", domain.GuideFullTime)}

	eligible := EligibleGuides(slot, roster, nil)

	require.Len(t, eligible, 1)
}
