package scheduler

import "github.com/jiak99/tour-scheduler/backend/internal/domain"

// CanPublishTourDay decides whether a guide-domain day may go out to the
// roster: a clean validation report and a standby pick. Publishing fails
// closed; the full violation list is returned so the caller can surface it.
func CanPublishTourDay(rules Rules, day *domain.TourDay, roster []*domain.Guide, unavailable map[int64]bool) (bool, []string) {
	report := ValidateDay(rules, day, roster, unavailable)
	can := report.OK() && day.StandbyGuideID != nil
	return can, report.Flatten()
}

// CanPublishRestaurantDay requires a clean report, which already covers the
// zero-unassigned-shifts condition.
func CanPublishRestaurantDay(rules Rules, day *domain.RestaurantDay, staff []*domain.RestaurantStaff, unavailable map[int64]bool) (bool, []string) {
	report := ValidateRestaurantDay(rules, day, staff, unavailable)
	return report.OK(), report.Flatten()
}
