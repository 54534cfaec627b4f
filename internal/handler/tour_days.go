package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jiak99/tour-scheduler/backend/internal/daylock"
	"github.com/jiak99/tour-scheduler/backend/internal/domain"
	"github.com/jiak99/tour-scheduler/backend/internal/scheduler"
)

func (h *Handler) GetAllTourSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.repository.GetAllTourSlots()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "", slots)
}

func (h *Handler) GenerateTourSlots(w http.ResponseWriter, r *http.Request) {
	created, err := h.repository.GenerateTourSlots(scheduler.TourSlotCatalog())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, fmt.Sprintf("%d slot(s) created", created), nil)
}

// leadDateOK reports whether a date keeps the configured materialization lead.
func (h *Handler) leadDateOK(date time.Time) bool {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !date.Before(today.AddDate(0, 0, h.config.Scheduling.MinLeadDays))
}

func (h *Handler) MaterializeTourDay(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(DateCtxKey).(time.Time)

	if !h.leadDateOK(date) {
		h.errorResponse(w, r, fmt.Sprintf("date must be at least %d days ahead", h.config.Scheduling.MinLeadDays))
		return
	}

	day, err := h.repository.MaterializeTourDay(date)
	if err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.Code == "23505":
			h.errorResponse(w, r, "this date is already scheduled")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "tour day created", day)
}

func (h *Handler) GenerateTourMonth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Month string `json:"month" validate:"required,datetime=2006-01"`
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

	created := 0
	for date := first; date.Month() == first.Month(); date = date.AddDate(0, 0, 1) {
		if _, err := h.repository.MaterializeTourDay(date); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				// already materialized, move on
				continue
			}
			h.internalServerError(w, r, err)
			return
		}
		created++
	}

	h.successResponse(w, r, fmt.Sprintf("%d tour day(s) created", created), nil)
}

func (h *Handler) GetTourDay(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(DateCtxKey).(time.Time)

	day, err := h.repository.GetTourDayByDate(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no tour day scheduled for this date")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "", day)
}

func (h *Handler) findSession(day *domain.TourDay, sessionID int64) *domain.TourSession {
	for i := range day.Sessions {
		if day.Sessions[i].ID == sessionID {
			return &day.Sessions[i]
		}
	}
	return nil
}

func (h *Handler) UpdateTourSession(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(DateCtxKey).(time.Time)

	sessionID, err := strconv.ParseInt(chi.URLParam(r, "sessionID"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid session ID")
		return
	}

	var req struct {
		Status         string `json:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
		VisitorCount   *int32 `json:"visitorCount" validate:"omitempty,min=0"`
		VisitorType    string `json:"visitorType"`
		BookingChannel string `json:"bookingChannel"`
		Notes          string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	day, err := h.repository.GetTourDayByDate(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no tour day scheduled for this date")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	session := h.findSession(day, sessionID)
	if session == nil {
		h.errorResponse(w, r, "session not found on this date")
		return
	}

	if req.Status != "" {
		session.Status = domain.SessionStatus(req.Status)
	}
	if req.VisitorCount != nil {
		session.VisitorCount = req.VisitorCount
	}
	session.VisitorType = req.VisitorType
	session.BookingChannel = req.BookingChannel
	session.Notes = req.Notes

	if err := h.repository.UpdateSessionDetails(session); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "session was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "session updated", session)
}

func (h *Handler) AssignTourSession(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(DateCtxKey).(time.Time)

	sessionID, err := strconv.ParseInt(chi.URLParam(r, "sessionID"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid session ID")
		return
	}

	var req struct {
		GuideID *int64 `json:"guideID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	day, err := h.repository.GetTourDayByDate(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no tour day scheduled for this date")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	session := h.findSession(day, sessionID)
	if session == nil {
		h.errorResponse(w, r, "session not found on this date")
		return
	}

	// clearing an assignment needs no rule check
	if req.GuideID != nil {
		guide, err := h.repository.GetGuideByID(*req.GuideID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "guide not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		unavailable, err := h.repository.UnavailableGuideIDs(date)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		candidate := *session
		candidate.GuideID = req.GuideID
		violations := scheduler.ValidateAssignment(h.rules, candidate, guide, day.Sessions, unavailable)
		if len(violations) > 0 {
			h.errorResponse(w, r, violations[0])
			return
		}
	}

	session.GuideID = req.GuideID
	if err := h.repository.UpdateSessionAssignment(session); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "session was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "session assignment updated", session)
}

func (h *Handler) SetStandbyGuide(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(DateCtxKey).(time.Time)

	var req struct {
		GuideID *int64 `json:"guideID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	day, err := h.repository.GetTourDayByDate(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no tour day scheduled for this date")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if req.GuideID != nil {
		guide, err := h.repository.GetGuideByID(*req.GuideID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "guide not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		if !guide.IsActive {
			h.errorResponse(w, r, "guide is not active")
			return
		}

		unavailable, err := h.repository.UnavailableGuideIDs(date)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if unavailable[guide.ID] {
			h.errorResponse(w, r, "guide is marked as unavailable on this date")
			return
		}
	}

	day.StandbyGuideID = req.GuideID
	if err := h.repository.SetStandbyGuide(day); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "tour day was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "standby guide updated", day)
}

// GetEligibleGuides lists the guides structurally allowed to take a session's
// slot, for the assignment picker.
func (h *Handler) GetEligibleGuides(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(DateCtxKey).(time.Time)

	sessionID, err := strconv.ParseInt(chi.URLParam(r, "sessionID"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid session ID")
		return
	}

	day, roster, unavailable, err := h.loadTourDayContext(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no tour day scheduled for this date")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	session := h.findSession(day, sessionID)
	if session == nil {
		h.errorResponse(w, r, "session not found on this date")
		return
	}

	eligible := scheduler.EligibleGuides(session.Slot, roster, unavailable)
	if eligible == nil {
		eligible = []*domain.Guide{}
	}

	h.successResponse(w, r, "", eligible)
}

// loadTourDayContext gathers everything the scheduling rules need for a date.
func (h *Handler) loadTourDayContext(date time.Time) (*domain.TourDay, []*domain.Guide, map[int64]bool, error) {
	day, err := h.repository.GetTourDayByDate(date)
	if err != nil {
		return nil, nil, nil, err
	}

	roster, err := h.repository.GetAllGuides()
	if err != nil {
		return nil, nil, nil, err
	}

	unavailable, err := h.repository.UnavailableGuideIDs(date)
	if err != nil {
		return nil, nil, nil, err
	}

	return day, roster, unavailable, nil
}

func (h *Handler) AutoAssignTourDay(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(DateCtxKey).(time.Time)

	// body is optional; standby is filled unless explicitly disabled
	req := struct {
		FillStandby *bool `json:"fillStandby"`
	}{}
	if err := h.readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(w, r, err)
		return
	}
	fillStandby := req.FillStandby == nil || *req.FillStandby

	release, err := h.locker.Acquire(r.Context(), "tour", date)
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

	day, roster, unavailable, err := h.loadTourDayContext(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no tour day scheduled for this date")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	result := scheduler.AutoAssignDay(h.rules, day, roster, unavailable, scheduler.AutoAssignOptions{FillStandby: fillStandby})

	if err := h.repository.ReplaceTourDayAssignments(day); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, fmt.Sprintf("%d session(s) assigned", result.AssignedCount), struct {
		Result *scheduler.AutoAssignResult `json:"result"`
		Day    *domain.TourDay             `json:"day"`
	}{Result: &result, Day: day})
}

func (h *Handler) ClearTourDay(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(DateCtxKey).(time.Time)

	release, err := h.locker.Acquire(r.Context(), "tour", date)
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

	day, err := h.repository.GetTourDayByDate(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no tour day scheduled for this date")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.ClearTourDayAssignments(day); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "all assignments cleared", day)
}

func (h *Handler) ValidateTourDay(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(DateCtxKey).(time.Time)

	day, roster, unavailable, err := h.loadTourDayContext(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no tour day scheduled for this date")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	report := scheduler.ValidateDay(h.rules, day, roster, unavailable)
	h.successResponse(w, r, "", report)
}

func (h *Handler) CanPublishTourDay(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(DateCtxKey).(time.Time)

	day, roster, unavailable, err := h.loadTourDayContext(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no tour day scheduled for this date")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	can, violations := scheduler.CanPublishTourDay(h.rules, day, roster, unavailable)
	h.successResponse(w, r, "", struct {
		CanPublish bool     `json:"canPublish"`
		Violations []string `json:"violations"`
	}{CanPublish: can, Violations: violations})
}

func (h *Handler) PublishTourDay(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(DateCtxKey).(time.Time)

	release, err := h.locker.Acquire(r.Context(), "tour", date)
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

	day, roster, unavailable, err := h.loadTourDayContext(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no tour day scheduled for this date")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	can, violations := scheduler.CanPublishTourDay(h.rules, day, roster, unavailable)
	if !can {
		msg := "schedule is not ready to publish"
		if len(violations) > 0 {
			msg = violations[0]
		}
		h.errorResponse(w, r, msg)
		return
	}

	if err := h.repository.SetTourDayPublished(day, true); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "tour day was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.notifyTourRoster(day, roster); err != nil {
		// the schedule is already published; notification failures are logged,
		// not rolled back
		h.logInternalServerError(r, err)
	}

	h.successResponse(w, r, "schedule published", day)
}

func (h *Handler) UnpublishTourDay(w http.ResponseWriter, r *http.Request) {
	date := r.Context().Value(DateCtxKey).(time.Time)

	day, err := h.repository.GetTourDayByDate(date)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no tour day scheduled for this date")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.repository.SetTourDayPublished(day, false); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "tour day was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "schedule withdrawn", day)
}

// notifyTourRoster queues one schedule email per involved guide, including
// the standby pick.
func (h *Handler) notifyTourRoster(day *domain.TourDay, roster []*domain.Guide) error {
	byID := scheduler.GuidesByID(roster)

	intervals := make(map[int64][]string)
	for _, session := range day.Sessions {
		if session.GuideID == nil {
			continue
		}
		iv := fmt.Sprintf("%s-%s", session.Slot.StartTime[:5], session.Slot.EndTime[:5])
		intervals[*session.GuideID] = append(intervals[*session.GuideID], iv)
	}

	standbyID := int64(0)
	if day.StandbyGuideID != nil {
		standbyID = *day.StandbyGuideID
		if _, ok := intervals[standbyID]; !ok {
			intervals[standbyID] = []string{}
		}
	}

	for guideID, ivs := range intervals {
		guide, ok := byID[guideID]
		if !ok || guide.Email == "" {
			continue
		}

		if err := h.publishMail(domain.MailMessage{
			Type: "schedule_published",
			To:   guide.Email,
			Data: domain.SchedulePublishedMailData{
				FullName:  guide.FullName,
				Date:      day.Date.Format("2006-01-02"),
				Intervals: ivs,
				IsStandby: guideID == standbyID,
			},
		}); err != nil {
			return err
		}
	}

	return nil
}

func (h *Handler) publishMail(msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
