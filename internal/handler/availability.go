package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jiak99/tour-scheduler/backend/internal/domain"
)

type availabilityEntry struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	IsAvailable bool   `json:"isAvailable"`
	Notes       string `json:"notes"`
}

// availabilityWindow returns the inclusive date range availability may be
// edited for: today through today plus the configured window.
func (h *Handler) availabilityWindow() (time.Time, time.Time) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return today, today.AddDate(0, 0, h.config.Scheduling.AvailabilityWindowDays)
}

func (h *Handler) parseAvailabilityEntries(entries []availabilityEntry) ([]*domain.Availability, error) {
	from, to := h.availabilityWindow()

	records := make([]*domain.Availability, 0, len(entries))
	for _, entry := range entries {
		date, err := time.ParseInLocation("2006-01-02", entry.Date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", entry.Date)
		}
		if date.Before(from) || date.After(to) {
			return nil, fmt.Errorf("date %s is outside the editable window (%s to %s)",
				entry.Date, from.Format("2006-01-02"), to.Format("2006-01-02"))
		}
		records = append(records, &domain.Availability{
			Date:        date,
			IsAvailable: entry.IsAvailable,
			Notes:       entry.Notes,
		})
	}

	return records, nil
}

func (h *Handler) GetGuideAvailability(w http.ResponseWriter, r *http.Request) {
	guide := r.Context().Value(GuideInfoCtx).(*domain.Guide)
	from, to := h.availabilityWindow()

	records, err := h.repository.GetGuideAvailability(guide.ID, from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "", records)
}

func (h *Handler) PutGuideAvailability(w http.ResponseWriter, r *http.Request) {
	guide := r.Context().Value(GuideInfoCtx).(*domain.Guide)

	var req struct {
		Entries []availabilityEntry `json:"entries" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	records, err := h.parseAvailabilityEntries(req.Entries)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	for _, record := range records {
		record.PersonID = guide.ID
		if err := h.repository.UpsertGuideAvailability(record); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "availability updated", records)
}

func (h *Handler) GetStaffAvailability(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.RestaurantStaff)
	from, to := h.availabilityWindow()

	records, err := h.repository.GetStaffAvailability(staff.ID, from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "", records)
}

func (h *Handler) PutStaffAvailability(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.RestaurantStaff)

	var req struct {
		Entries []availabilityEntry `json:"entries" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	records, err := h.parseAvailabilityEntries(req.Entries)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	for _, record := range records {
		record.PersonID = staff.ID
		if err := h.repository.UpsertStaffAvailability(record); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "availability updated", records)
}
