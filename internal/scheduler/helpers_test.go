package scheduler

import (
	"time"

	"github.com/jiak99/tour-scheduler/backend/internal/domain"
)

func testDate() time.Time {
	return time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC)
}

func testSlot(id int64, start, end string) domain.TourSlot {
	return domain.TourSlot{
		ID:              id,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: int32(clockMinutes(end) - clockMinutes(start)),
	}
}

func testSession(id int64, slot domain.TourSlot, guideID *int64) domain.TourSession {
	return domain.TourSession{
		ID:      id,
		Slot:    slot,
		GuideID: guideID,
		Status:  domain.SessionScheduled,
	}
}

func testGuide(id int64, name string, t domain.GuideType) *domain.Guide {
	return &domain.Guide{ID: id, FullName: name, Type: t, IsActive: true}
}

func testTourDay(sessions ...domain.TourSession) *domain.TourDay {
	return &domain.TourDay{ID: 1, Date: testDate(), Sessions: sessions}
}

// fullCatalogDay materializes the complete tour catalog as unassigned
// sessions, session IDs matching slot IDs.
func fullCatalogDay() *domain.TourDay {
	day := &domain.TourDay{ID: 1, Date: testDate()}
	for i, slot := range TourSlotCatalog() {
		slot.ID = int64(i + 1)
		day.Sessions = append(day.Sessions, testSession(int64(i+1), slot, nil))
	}
	return day
}

func testStaff(id int64, name string, t domain.StaffType) *domain.RestaurantStaff {
	return &domain.RestaurantStaff{ID: id, FullName: name, Type: t, IsActive: true}
}

// testRestaurantDay instantiates a pattern for both staff types, the way the
// repository materializes a day.
func testRestaurantDay(pattern domain.ShiftPattern) *domain.RestaurantDay {
	templates, _ := domain.PatternTemplates(pattern)
	day := &domain.RestaurantDay{ID: 1, Date: testDate()}
	var id int64
	for _, staffType := range []domain.StaffType{domain.StaffKitchen, domain.StaffServing} {
		for _, tmpl := range templates {
			id++
			day.Shifts = append(day.Shifts, domain.StaffShift{
				ID:            id,
				StaffType:     staffType,
				StartTime:     tmpl.StartTime,
				EndTime:       tmpl.EndTime,
				DurationHours: tmpl.DurationHours,
			})
		}
	}
	return day
}

func ptr(id int64) *int64 {
	return &id
}
