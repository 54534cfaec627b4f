package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jiak99/tour-scheduler/backend/internal/daylock"
	"github.com/jiak99/tour-scheduler/backend/internal/domain"
	"github.com/jiak99/tour-scheduler/backend/internal/scheduler"
)

func (h *Handler) MaterializeRestaurantDay(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(DateCtxKey).(time.Time)

	var req struct {
		Pattern string `json:"pattern" validate:"required,oneof=mixed all_8h"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if !h.leadDateOK(date) {
		h.errorResponse(w, r, fmt.Sprintf("date must be at least %d days ahead", h.config.Scheduling.MinLeadDays))
		return
	}

	day, err := h.repository.MaterializeRestaurantDay(date, domain.ShiftPattern(req.Pattern))
	if err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.Code == "23505":
			h.errorResponse(w, r, "this date is already scheduled")
		case errors.Is(err, domain.ErrUnknownShiftPattern):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "restaurant day created", day)
}

func (h *Handler) GenerateRestaurantMonth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month   string `json:"month" validate:"required,datetime=2006-01"`
		Pattern string `json:"pattern" validate:"required,oneof=mixed all_8h"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	first, err := time.ParseInLocation("2006-01", req.Month, time.UTC)
	if err != nil {
		h.errorResponse(w, r, "invalid month, expected YYYY-MM")
		return
	}

	if !h.leadDateOK(first) {
		h.errorResponse(w, r, fmt.Sprintf("month must start at least %d days ahead", h.config.Scheduling.MinLeadDays))
		return
	}

	pattern := domain.ShiftPattern(req.Pattern)
	created := 0
	for date := first; date.Month() == first.Month(); date = date.AddDate(0, 0, 1) {
		if _, err := h.repository.MaterializeRestaurantDay(date, pattern); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				continue
			}
			h.internalServerError(w, r, err)
			return
		}
		created++
	}

	h.successResponse(w, r, fmt.Sprintf("%d restaurant day(s) created", created), nil)
}

func (h *Handler) GetRestaurantDay(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(DateCtxKey).(time.Time)

	day, err := h.repository.GetRestaurantDayByDate(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no restaurant day scheduled for this date")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "", day)
}

func (h *Handler) AssignStaffShift(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(DateCtxKey).(time.Time)

	shiftID, err := strconv.ParseInt(chi.URLParam(r, "shiftID"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid shift ID")
		return
	}

	var req struct {
		StaffID *int64 `json:"staffID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	day, err := h.repository.GetRestaurantDayByDate(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no restaurant day scheduled for this date")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	var shift *domain.StaffShift
	for i := range day.Shifts {
		if day.Shifts[i].ID == shiftID {
			shift = &day.Shifts[i]
			break
		}
	}
	if shift == nil {
		h.errorResponse(w, r, "shift not found on this date")
		return
	}

	if req.StaffID != nil {
		member, err := h.repository.GetRestaurantStaffByID(*req.StaffID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "staff member not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		if member.Type != shift.StaffType {
			h.errorResponse(w, r, fmt.Sprintf("%s staff cannot take a %s shift", member.Type, shift.StaffType))
			return
		}
		if !member.IsActive {
			h.errorResponse(w, r, "staff member is not active")
			return
		}

		unavailable, err := h.repository.UnavailableStaffIDs(date)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if unavailable[member.ID] {
			h.errorResponse(w, r, "staff member is marked as unavailable on this date")
			return
		}

		for i := range day.Shifts {
			if day.Shifts[i].ID != shiftID && day.Shifts[i].StaffID != nil && *day.Shifts[i].StaffID == member.ID {
				h.errorResponse(w, r, "staff member already holds another shift this day")
				return
			}
		}
	}

	shift.StaffID = req.StaffID
	if err := h.repository.UpdateShiftAssignment(shift); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "shift was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "shift assignment updated", shift)
}

// loadRestaurantDayContext gathers everything the staffing rules need for a
// date.
func (h *Handler) loadRestaurantDayContext(date time.Time) (*domain.RestaurantDay, []*domain.RestaurantStaff, map[int64]bool, error) {
	day, err := h.repository.GetRestaurantDayByDate(date)
	if err != nil {
		return nil, nil, nil, err
	}

	staff, err := h.repository.GetAllRestaurantStaff()
	if err != nil {
		return nil, nil, nil, err
	}

	unavailable, err := h.repository.UnavailableStaffIDs(date)
	if err != nil {
		return nil, nil, nil, err
	}

	return day, staff, unavailable, nil
}

func (h *Handler) AutoAssignRestaurantDay(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(DateCtxKey).(time.Time)

	release, err := h.locker.Acquire(r.Context(), "restaurant", date)
	if err != nil {
		switch {
		case errors.Is(err, daylock.ErrLocked):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	defer release()

	day, staff, unavailable, err := h.loadRestaurantDayContext(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no restaurant day scheduled for this date")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	result := scheduler.AssignRestaurantDay(day, staff, unavailable)

	if err := h.repository.ReplaceRestaurantAssignments(day); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, fmt.Sprintf("%d shift(s) assigned", result.TotalStaff), struct {
		Result *scheduler.RestaurantAssignResult `json:"result"`
		Day    *domain.RestaurantDay             `json:"day"`
	}{Result: &result, Day: day})
}

func (h *Handler) ClearRestaurantDay(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(DateCtxKey).(time.Time)

	release, err := h.locker.Acquire(r.Context(), "restaurant", date)
	if err != nil {
		switch {
		case errors.Is(err, daylock.ErrLocked):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	defer release()

	day, err := h.repository.GetRestaurantDayByDate(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no restaurant day scheduled for this date")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.ClearRestaurantAssignments(day); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "all assignments cleared", day)
}

func (h *Handler) ValidateRestaurantDay(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(DateCtxKey).(time.Time)

	day, staff, unavailable, err := h.loadRestaurantDayContext(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no restaurant day scheduled for this date")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	report := scheduler.ValidateRestaurantDay(h.rules, day, staff, unavailable)
	h.successResponse(w, r, "", report)
}

func (h *Handler) CanPublishRestaurantDay(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(DateCtxKey).(time.Time)

	day, staff, unavailable, err := h.loadRestaurantDayContext(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no restaurant day scheduled for this date")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	can, violations := scheduler.CanPublishRestaurantDay(h.rules, day, staff, unavailable)
	h.successResponse(w, r, "", struct {
		CanPublish bool     `json:"canPublish"`
		Violations []string `json:"violations"`
	}{CanPublish: can, Violations: violations})
}

func (h *Handler) PublishRestaurantDay(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(DateCtxKey).(time.Time)

	release, err := h.locker.Acquire(r.Context(), "restaurant", date)
	if err != nil {
		switch {
		case errors.Is(err, daylock.ErrLocked):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	defer release()

	day, staff, unavailable, err := h.loadRestaurantDayContext(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no restaurant day scheduled for this date")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	can, violations := scheduler.CanPublishRestaurantDay(h.rules, day, staff, unavailable)
	if !can {
		msg := "schedule is not ready to publish"
		if len(violations) > 0 {
			msg = violations[0]
		}
		h.errorResponse(w, r, msg)
		return
	}

	if err := h.repository.SetRestaurantDayPublished(day, true); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "restaurant day was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.notifyRestaurantRoster(day, staff); err != nil {
		h.logInternalServerError(r, err)
	}

	h.successResponse(w, r, "schedule published", day)
}

func (h *Handler) UnpublishRestaurantDay(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(DateCtxKey).(time.Time)

	day, err := h.repository.GetRestaurantDayByDate(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no restaurant day scheduled for this date")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.SetRestaurantDayPublished(day, false); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "restaurant day was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "schedule withdrawn", day)
}

func (h *Handler) notifyRestaurantRoster(day *domain.RestaurantDay, staff []*domain.RestaurantStaff) error {
	byID := scheduler.StaffByID(staff)

	intervals := make(map[int64][]string)
	for _, shift := range day.Shifts {
		if shift.StaffID == nil {
			continue
		}
		iv := fmt.Sprintf("%s-%s", shift.StartTime[:5], shift.EndTime[:5])
		intervals[*shift.StaffID] = append(intervals[*shift.StaffID], iv)
	}

	for staffID, ivs := range intervals {
		member, ok := byID[staffID]
		if !ok || member.Email == "" {
			continue
		}

		if err := h.publishMail(domain.MailMessage{
			Type: "schedule_published",
			To:   member.Email,
			Data: domain.SchedulePublishedMailData{
				FullName:  member.FullName,
				Date:      day.Date.Format("2006-01-02"),
				Intervals: ivs,
				IsStandby: false,
			},
		}); err != nil {
			return err
		}
	}

	return nil
}
