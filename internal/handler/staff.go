package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/jiak99/tour-scheduler/backend/internal/domain"
)

func (h *Handler) CreateRestaurantStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"fullName" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Type     string `json:"type" validate:"required,oneof=kitchen serving"`
		HireDate string `json:"hireDate" validate:"omitempty,datetime=2006-01-02"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	staff := &domain.RestaurantStaff{
		FullName: req.FullName,
		Email:    req.Email,
		Type:     domain.StaffType(req.Type),
	}
	if req.HireDate != "" {
		hireDate, _ := time.ParseInLocation("2006-01-02", req.HireDate, time.UTC)
		staff.HireDate = &hireDate
	}

	if err := h.repository.CreateRestaurantStaff(staff); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "staff member created", staff)
}

func (h *Handler) GetAllRestaurantStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.repository.GetAllRestaurantStaff()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "", staff)
}

func (h *Handler) GetRestaurantStaff(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.RestaurantStaff)
	h.successResponse(w, r, "", staff)
}

func (h *Handler) UpdateRestaurantStaff(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.RestaurantStaff)

	var req struct {
		FullName *string `json:"fullName"`
		Email    *string `json:"email" validate:"omitempty,email"`
		Type     *string `json:"type" validate:"omitempty,oneof=kitchen serving"`
		HireDate *string `json:"hireDate" validate:"omitempty,datetime=2006-01-02"`
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
		staff.FullName = *req.FullName
	}
	if req.Email != nil {
		staff.Email = *req.Email
	}
	if req.Type != nil {
		staff.Type = domain.StaffType(*req.Type)
	}
	if req.HireDate != nil {
		hireDate, _ := time.ParseInLocation("2006-01-02", *req.HireDate, time.UTC)
		staff.HireDate = &hireDate
	}
	if req.IsActive != nil {
		staff.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateRestaurantStaff(staff); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "staff member was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "staff member updated", staff)
}

func (h *Handler) DeleteRestaurantStaff(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffInfoCtx).(*domain.RestaurantStaff)

	if err := h.repository.DeleteRestaurantStaff(staff.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "staff member deleted", nil)
}
