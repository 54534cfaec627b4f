package scheduler

import (
	"testing"

	"github.com/jiak99/tour-scheduler/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoAssignSingleSlot(t *testing.T) {
	rules := DefaultRules()
	roster := []*domain.Guide{testGuide(1, "Alice Tan", domain.GuideFullTime)}
	day := testTourDay(testSession(1, testSlot(1, "10:00:00", "11:30:00"), nil))

	result := AutoAssignDay(rules, day, roster, nil, AutoAssignOptions{})

	assert.Equal(t, 1, result.AssignedCount)
	assert.Equal(t, 0, result.UnfillableCount)
	assert.Empty(t, result.Errors)
	require.NotNil(t, day.Sessions[0].GuideID)
	assert.Equal(t, int64(1), *day.Sessions[0].GuideID)
}

func TestAutoAssignNoActiveRoster(t *testing.T) {
	rules := DefaultRules()
	inactive := testGuide(1, "Alice Tan", domain.GuideFullTime)
	inactive.IsActive = false
	day := testTourDay(testSession(1, testSlot(1, "10:00:00", "11:30:00"), nil))

	result := AutoAssignDay(rules, day, []*domain.Guide{inactive}, nil, AutoAssignOptions{})

	assert.Equal(t, 0, result.AssignedCount)
	assert.Equal(t, 1, result.UnfillableCount)
	assert.Equal(t, []int64{1}, result.UnfillableSessions)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "no active guides available", result.Errors[0])
}

// A fully assigned day is a clean no-op, and the standby pick still runs.
func TestAutoAssignNothingToDo(t *testing.T) {
	rules := DefaultRules()
	roster := []*domain.Guide{
		testGuide(1, "Alice Tan", domain.GuideFullTime),
		testGuide(2, "Ben Lim", domain.GuideFullTime),
	}
	day := testTourDay(testSession(1, testSlot(1, "10:00:00", "11:30:00"), ptr(1)))

	result := AutoAssignDay(rules, day, roster, nil, AutoAssignOptions{FillStandby: true})

	assert.Empty(t, result.Errors)
	assert.Equal(t, 0, result.AssignedCount)
	assert.Equal(t, 0, result.UnfillableCount)
	require.NotNil(t, day.Sessions[0].GuideID)
	assert.Equal(t, int64(1), *day.Sessions[0].GuideID)
	require.NotNil(t, day.StandbyGuideID)
	assert.Equal(t, int64(2), *day.StandbyGuideID)
}

// A single guide against the full catalog hits every cap: the daily maximum,
// the consecutive-run limit and the long-break requirement.
func TestAutoAssignSingleGuideFullCatalog(t *testing.T) {
	rules := DefaultRules()
	roster := []*domain.Guide{testGuide(1, "Alice Tan", domain.GuideFullTime)}
	day := fullCatalogDay()

	result := AutoAssignDay(rules, day, roster, nil, AutoAssignOptions{})

	assert.Equal(t, rules.MaxToursPerDay, result.AssignedCount)
	assert.Equal(t, len(day.Sessions)-rules.MaxToursPerDay, result.UnfillableCount)

	var starts []string
	for _, session := range day.Sessions {
		if session.GuideID != nil {
			starts = append(starts, session.Slot.StartTime)
		}
	}
	// 10:00 + 12:00 is a 2-run; 15:00 opens after the 90-minute break the
	// 3rd tour requires; 17:00 closes the second 2-run.
	assert.Equal(t, []string{"10:00:00", "12:00:00", "15:00:00", "17:00:00"}, starts)

	assertDayInvariants(t, rules, day, roster)
}

// The scheduler concentrates work: a second guide is only pulled in when the
// first cannot take a slot.
func TestAutoAssignMinimizesHeadcount(t *testing.T) {
	rules := DefaultRules()
	roster := []*domain.Guide{
		testGuide(1, "Alice Tan", domain.GuideFullTime),
		testGuide(2, "Ben Lim", domain.GuideFullTime),
	}
	day := testTourDay(
		testSession(1, testSlot(1, "10:00:00", "11:30:00"), nil),
		testSession(2, testSlot(2, "13:00:00", "14:30:00"), nil),
		testSession(3, testSlot(3, "15:00:00", "16:30:00"), nil),
	)

	result := AutoAssignDay(rules, day, roster, nil, AutoAssignOptions{})

	assert.Equal(t, 3, result.AssignedCount)
	assert.Equal(t, 0, result.UnfillableCount)
	for _, session := range day.Sessions {
		require.NotNil(t, session.GuideID)
		assert.Equal(t, int64(1), *session.GuideID)
	}
}

func TestAutoAssignRespectsPartTimeWindows(t *testing.T) {
	rules := DefaultRules()
	roster := []*domain.Guide{
		testGuide(1, "Chloe Ong", domain.GuidePartTimeMorning),
		testGuide(2, "Dinesh Raj", domain.GuidePartTimeAfternoon),
	}
	day := testTourDay(
		testSession(1, testSlot(1, "10:00:00", "11:30:00"), nil),
		testSession(2, testSlot(2, "15:00:00", "16:30:00"), nil),
		testSession(3, testSlot(3, "13:00:00", "14:30:00"), nil),
	)

	result := AutoAssignDay(rules, day, roster, nil, AutoAssignOptions{})

	assert.Equal(t, 3, result.AssignedCount)
	assert.Equal(t, int64(1), *day.Sessions[0].GuideID)
	assert.Equal(t, int64(2), *day.Sessions[1].GuideID)
	// 13:00-14:30 straddles neither window fully; only the morning guide may
	// take it, and the 10:00 tour ended 90 minutes earlier.
	assert.Equal(t, int64(1), *day.Sessions[2].GuideID)
}

func TestAutoAssignUnfillableIsNotFatal(t *testing.T) {
	rules := DefaultRules()
	roster := []*domain.Guide{testGuide(1, "Dinesh Raj", domain.GuidePartTimeAfternoon)}
	day := testTourDay(
		testSession(1, testSlot(1, "10:00:00", "11:30:00"), nil),
		testSession(2, testSlot(2, "15:00:00", "16:30:00"), nil),
	)

	result := AutoAssignDay(rules, day, roster, nil, AutoAssignOptions{})

	assert.Equal(t, 1, result.AssignedCount)
	assert.Equal(t, 1, result.UnfillableCount)
	assert.Equal(t, []int64{1}, result.UnfillableSessions)
	assert.Empty(t, result.Errors)
}

func TestAutoAssignFillsStandby(t *testing.T) {
	rules := DefaultRules()
	roster := []*domain.Guide{
		testGuide(1, "Alice Tan", domain.GuideFullTime),
		testGuide(2, "Ben Lim", domain.GuideFullTime),
	}
	day := testTourDay(
		testSession(1, testSlot(1, "10:00:00", "11:30:00"), nil),
		testSession(2, testSlot(2, "12:00:00", "13:30:00"), nil),
	)

	result := AutoAssignDay(rules, day, roster, nil, AutoAssignOptions{FillStandby: true})

	assert.Equal(t, 2, result.AssignedCount)
	// both slots went to Alice, so Ben has the lighter load
	require.NotNil(t, day.StandbyGuideID)
	assert.Equal(t, int64(2), *day.StandbyGuideID)
}

func TestAutoAssignStandbyExcludesUnavailable(t *testing.T) {
	rules := DefaultRules()
	roster := []*domain.Guide{
		testGuide(1, "Alice Tan", domain.GuideFullTime),
		testGuide(2, "Ben Lim", domain.GuideFullTime),
	}
	day := testTourDay(testSession(1, testSlot(1, "10:00:00", "11:30:00"), nil))

	result := AutoAssignDay(rules, day, roster, map[int64]bool{2: true}, AutoAssignOptions{FillStandby: true})

	assert.Equal(t, 1, result.AssignedCount)
	// Alice already covers every session, Ben is unavailable: nobody left
	assert.Nil(t, day.StandbyGuideID)
}

func TestAutoAssignIsDeterministic(t *testing.T) {
	rules := DefaultRules()
	run := func() []int64 {
		roster := []*domain.Guide{
			testGuide(1, "Alice Tan", domain.GuideFullTime),
			testGuide(2, "Ben Lim", domain.GuideFullTime),
			testGuide(3, "Chloe Ong", domain.GuidePartTimeMorning),
		}
		day := fullCatalogDay()
		AutoAssignDay(rules, day, roster, nil, AutoAssignOptions{FillStandby: true})

		var ids []int64
		for _, session := range day.Sessions {
			if session.GuideID == nil {
				ids = append(ids, 0)
				continue
			}
			ids = append(ids, *session.GuideID)
		}
		return ids
	}

	first := run()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, run())
	}
}

// assertDayInvariants checks the hard invariants that must hold for any
// auto-assigned ledger: no overlaps, buffers respected, caps respected and a
// long break present once a guide holds three or more tours.
func assertDayInvariants(t *testing.T, rules Rules, day *domain.TourDay, roster []*domain.Guide) {
	t.Helper()

	for _, g := range roster {
		var ivs []interval
		for _, session := range day.Sessions {
			if session.GuideID != nil && *session.GuideID == g.ID {
				ivs = append(ivs, newInterval(session.Slot.StartTime, session.Slot.EndTime))
			}
		}
		require.LessOrEqual(t, len(ivs), rules.MaxToursPerDay)

		hasLongBreak := false
		run := 1
		for i := 0; i < len(ivs)-1; i++ {
			gap := gapBetween(ivs[i], ivs[i+1])
			require.GreaterOrEqual(t, gap, rules.MinBufferMinutes, "guide %d: gap below buffer", g.ID)
			if gap >= rules.LongBreakGapMinutes {
				hasLongBreak = true
			}
			if gap == rules.MinBufferMinutes {
				run++
				require.LessOrEqual(t, run, rules.MaxConsecutiveTours)
			} else {
				run = 1
			}
		}
		if len(ivs) >= 3 {
			require.True(t, hasLongBreak, "guide %d has %d tours without a long break", g.ID, len(ivs))
		}
	}
}
