// Package seed fills a development database with a plausible roster: a few
// viewer accounts, a mixed guide roster, four kitchen and four serving staff,
// the slot catalog and a handful of unavailability records.
package seed

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/jiak99/tour-scheduler/backend/internal/config"
	"github.com/jiak99/tour-scheduler/backend/internal/domain"
	"github.com/jiak99/tour-scheduler/backend/internal/repository"
	"github.com/jiak99/tour-scheduler/backend/internal/scheduler"
	"github.com/jiak99/tour-scheduler/backend/internal/utils"
)

const emailDomainName = "example.com"

func Seed(cfg *config.Config, repo *repository.Repository) {
	created, err := repo.GenerateTourSlots(scheduler.TourSlotCatalog())
	if err != nil {
		slog.Error("unable to generate the slot catalog", "error", err)
		return
	}
	slog.Info("slot catalog ready", "created", created)

	for i := 0; i < 3; i++ {
		user, err := utils.GenerateRandomUser(cfg.Seed.Password, emailDomainName)
		if err != nil {
			slog.Error("unable to generate a user", "error", err)
			return
		}
		if err := repo.CreateUser(user); err != nil {
			slog.Error("unable to create a user", "error", err)
			return
		}
	}

	// a roster that can carry a full day: mostly full-timers plus a part-time
	// pair per window
	guides := make([]*domain.Guide, 0, 8)
	types := []domain.GuideType{
		domain.GuideFullTime, domain.GuideFullTime, domain.GuideFullTime, domain.GuideFullTime,
		domain.GuidePartTimeMorning, domain.GuidePartTimeMorning,
		domain.GuidePartTimeAfternoon, domain.GuidePartTimeAfternoon,
	}
	for _, t := range types {
		guide := utils.GenerateRandomGuide(emailDomainName)
		guide.Type = t
		if err := repo.CreateGuide(guide); err != nil {
			slog.Error("unable to create a guide", "error", err)
			return
		}
		guides = append(guides, guide)
	}

	staff := make([]*domain.RestaurantStaff, 0, 8)
	for _, t := range []domain.StaffType{domain.StaffKitchen, domain.StaffServing} {
		for i := 0; i < 4; i++ {
			member := utils.GenerateRandomStaff(t, emailDomainName)
			if err := repo.CreateRestaurantStaff(member); err != nil {
				slog.Error("unable to create a staff member", "error", err)
				return
			}
			staff = append(staff, member)
		}
	}

	// sprinkle some unavailability over the next two weeks
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for _, guide := range guides {
		if rand.Intn(3) != 0 {
			continue
		}
		av := &domain.Availability{
			PersonID:    guide.ID,
			Date:        today.AddDate(0, 0, rand.Intn(14)+1),
			IsAvailable: false,
			Notes:       "seeded day off",
		}
		if err := repo.UpsertGuideAvailability(av); err != nil {
			slog.Error("unable to record guide availability", "error", err)
			return
		}
	}
	for _, member := range staff {
		if rand.Intn(3) != 0 {
			continue
		}
		av := &domain.Availability{
			PersonID:    member.ID,
			Date:        today.AddDate(0, 0, rand.Intn(14)+1),
			IsAvailable: false,
			Notes:       "seeded day off",
		}
		if err := repo.UpsertStaffAvailability(av); err != nil {
			slog.Error("unable to record staff availability", "error", err)
			return
		}
	}

	slog.Info("seed finished", "guides", len(guides), "staff", len(staff))
}
