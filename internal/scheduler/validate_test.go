package scheduler

import (
	"testing"

	"github.com/jiak99/tour-scheduler/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Back-to-back slots do not overlap but break the minimum buffer (gap 0).
func TestValidateAssignmentBackToBack(t *testing.T) {
	rules := DefaultRules()
	guide := testGuide(1, "Alice Tan", domain.GuideFullTime)

	first := testSession(1, testSlot(1, "10:00:00", "11:30:00"), ptr(1))
	second := testSession(2, testSlot(2, "11:30:00", "13:00:00"), ptr(1))
	sessions := []domain.TourSession{first, second}

	violations := ValidateAssignment(rules, first, guide, sessions, nil)

	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "less than 30-minute break")
	assert.Contains(t, violations[0], "gap: 0 minutes")
	assert.NotContains(t, violations[0], "overlaps")
}

func TestValidateAssignmentOverlap(t *testing.T) {
	rules := DefaultRules()
	guide := testGuide(1, "Alice Tan", domain.GuideFullTime)

	first := testSession(1, testSlot(1, "10:00:00", "11:30:00"), ptr(1))
	overlapping := testSession(2, testSlot(2, "11:00:00", "12:30:00"), ptr(1))
	sessions := []domain.TourSession{first, overlapping}

	violations := ValidateAssignment(rules, first, guide, sessions, nil)

	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "overlaps with another assigned tour")
}

func TestValidateAssignmentSufficientGap(t *testing.T) {
	rules := DefaultRules()
	guide := testGuide(1, "Alice Tan", domain.GuideFullTime)

	first := testSession(1, testSlot(1, "10:00:00", "11:30:00"), ptr(1))
	later := testSession(2, testSlot(2, "12:00:00", "13:30:00"), ptr(1))
	sessions := []domain.TourSession{first, later}

	// gap is exactly the 30-minute buffer
	assert.Empty(t, ValidateAssignment(rules, first, guide, sessions, nil))
}

func TestValidateAssignmentTypeAndAvailability(t *testing.T) {
	rules := DefaultRules()
	guide := testGuide(1, "Chloe Ong", domain.GuidePartTimeMorning)

	session := testSession(1, testSlot(1, "15:00:00", "16:30:00"), ptr(1))
	violations := ValidateAssignment(rules, session, guide, []domain.TourSession{session}, map[int64]bool{1: true})

	require.Len(t, violations, 2)
	assert.Contains(t, violations[0], "part-time morning guide cannot work")
	assert.Contains(t, violations[1], "unavailable")
}

func TestValidateDayReportsUnassignedAndStandby(t *testing.T) {
	rules := DefaultRules()
	roster := []*domain.Guide{testGuide(1, "Alice Tan", domain.GuideFullTime)}

	day := testTourDay(
		testSession(1, testSlot(1, "10:00:00", "11:30:00"), ptr(1)),
		testSession(2, testSlot(2, "12:00:00", "13:30:00"), nil),
		testSession(3, testSlot(3, "15:00:00", "16:30:00"), nil),
	)

	report := ValidateDay(rules, day, roster, nil)

	assert.False(t, report.OK())
	require.Len(t, report.General, 2)
	assert.Equal(t, "2 session(s) not assigned to any guide", report.General[0])
	assert.Equal(t, "no standby guide assigned", report.General[1])
	assert.Empty(t, report.Sessions)
	assert.InDelta(t, 100.0/3, report.CoveragePercent, 0.01)
}

func TestValidateDayStandbyUnavailable(t *testing.T) {
	rules := DefaultRules()
	roster := []*domain.Guide{
		testGuide(1, "Alice Tan", domain.GuideFullTime),
		testGuide(2, "Ben Lim", domain.GuideFullTime),
	}

	day := testTourDay(testSession(1, testSlot(1, "10:00:00", "11:30:00"), ptr(1)))
	day.StandbyGuideID = ptr(2)

	report := ValidateDay(rules, day, roster, map[int64]bool{2: true})

	require.Len(t, report.General, 1)
	assert.Equal(t, "standby guide is marked as unavailable", report.General[0])
}

func TestValidateDayCleanLedger(t *testing.T) {
	rules := DefaultRules()
	roster := []*domain.Guide{
		testGuide(1, "Alice Tan", domain.GuideFullTime),
		testGuide(2, "Ben Lim", domain.GuideFullTime),
	}

	day := testTourDay(
		testSession(1, testSlot(1, "10:00:00", "11:30:00"), ptr(1)),
		testSession(2, testSlot(2, "12:00:00", "13:30:00"), ptr(1)),
	)
	day.StandbyGuideID = ptr(2)

	report := ValidateDay(rules, day, roster, nil)

	assert.True(t, report.OK())
	assert.Empty(t, report.Flatten())
	assert.Equal(t, 100.0, report.CoveragePercent)
}

// Publishing does not freeze a ledger: a violation introduced afterwards must
// surface on the next validation even though the flag is still set.
func TestValidateDayAfterPublish(t *testing.T) {
	rules := DefaultRules()
	roster := []*domain.Guide{
		testGuide(1, "Alice Tan", domain.GuideFullTime),
		testGuide(2, "Ben Lim", domain.GuideFullTime),
	}

	day := testTourDay(testSession(1, testSlot(1, "10:00:00", "11:30:00"), ptr(1)))
	day.StandbyGuideID = ptr(2)

	can, violations := CanPublishTourDay(rules, day, roster, nil)
	require.True(t, can)
	require.Empty(t, violations)
	day.IsPublished = true

	// an edit after publishing breaks the ledger
	day.Sessions[0].GuideID = nil

	report := ValidateDay(rules, day, roster, nil)
	assert.False(t, report.OK())
	assert.Contains(t, report.General[0], "not assigned")
}

func TestCanPublishTourDayRequiresStandby(t *testing.T) {
	rules := DefaultRules()
	roster := []*domain.Guide{testGuide(1, "Alice Tan", domain.GuideFullTime)}

	day := testTourDay(testSession(1, testSlot(1, "10:00:00", "11:30:00"), ptr(1)))

	can, violations := CanPublishTourDay(rules, day, roster, nil)

	assert.False(t, can)
	require.Len(t, violations, 1)
	assert.Equal(t, "no standby guide assigned", violations[0])
}
