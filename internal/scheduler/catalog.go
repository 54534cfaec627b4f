package scheduler

import "github.com/jiak99/tour-scheduler/backend/internal/domain"

// TourSlotCatalog returns the full fixed tour catalog: 90-minute tours
// starting on the hour from 10:00 through 20:00 (the last tour ends at the
// 21:30 close). The repository inserts these idempotently.
func TourSlotCatalog() []domain.TourSlot {
	var slots []domain.TourSlot
	for start := openingMinute; start <= lastTourStartMinute; start += 60 {
		end := start + tourDurationMinutes
		slots = append(slots, domain.TourSlot{
			StartTime:       formatMinutes(start) + ":00",
			EndTime:         formatMinutes(end) + ":00",
			DurationMinutes: tourDurationMinutes,
		})
	}
	return slots
}
