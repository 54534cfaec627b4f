package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jiak99/tour-scheduler/backend/internal/domain"
)

func (h *Handler) CreateGuide(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"fullName" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Phone    string `json:"phone"`
		Type     string `json:"type" validate:"required,oneof=full_time part_time_morning part_time_afternoon"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	guide := &domain.Guide{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Type:     domain.GuideType(req.Type),
	}

	if err := h.repository.CreateGuide(guide); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "guide created", guide)
}

func (h *Handler) GetAllGuides(w http.ResponseWriter, r *http.Request) {
	guides, err := h.repository.GetAllGuides()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "", guides)
}

func (h *Handler) GetGuide(w http.ResponseWriter, r *http.Request) {
	guide := r.Context().Value(GuideInfoCtx).(*domain.Guide)
	h.successResponse(w, r, "", guide)
}

func (h *Handler) UpdateGuide(w http.ResponseWriter, r *http.Request) {
	guide := r.Context().Value(GuideInfoCtx).(*domain.Guide)

	var req struct {
		FullName *string `json:"fullName"`
		Email    *string `json:"email" validate:"omitempty,email"`
		Phone    *string `json:"phone"`
		Type     *string `json:"type" validate:"omitempty,oneof=full_time part_time_morning part_time_afternoon"`
		IsActive *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.FullName != nil {
		guide.FullName = *req.FullName
	}
	if req.Email != nil {
		guide.Email = *req.Email
	}
	if req.Phone != nil {
		guide.Phone = *req.Phone
	}
	if req.Type != nil {
		guide.Type = domain.GuideType(*req.Type)
	}
	if req.IsActive != nil {
		guide.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateGuide(guide); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "guide was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "guide updated", guide)
}

func (h *Handler) DeleteGuide(w http.ResponseWriter, r *http.Request) {
	guide := r.Context().Value(GuideInfoCtx).(*domain.Guide)

	if err := h.repository.DeleteGuide(guide.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "guide deleted", nil)
}
