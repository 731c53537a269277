package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/profitbridge/platform-api/internal/domain"
	"github.com/profitbridge/platform-api/internal/service"
	"github.com/shopspring/decimal"
)

// AdminHandler exposes the moderation surface: ledger listings with filters,
// status transitions, record deletion, user management, and plan CRUD.
type AdminHandler struct {
	svc      *service.AdminService
	pageSize int
}

func NewAdminHandler(svc *service.AdminService, pageSize int) *AdminHandler {
	return &AdminHandler{svc: svc, pageSize: pageSize}
}

func (h *AdminHandler) listFilter(r *http.Request) service.ListFilter {
	page, size := pageParams(r, h.pageSize)
	return service.ListFilter{
		EmailContains: r.URL.Query().Get("email"),
		Status:        r.URL.Query().Get("status"),
		Page:          page,
		PageSize:      size,
	}
}

func (h *AdminHandler) ListDeposits(w http.ResponseWriter, r *http.Request) {
	f := h.listFilter(r)
	deposits, err := h.svc.ListDeposits(r.Context(), f)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"deposits":  deposits,
		"page":      f.Page,
		"page_size": f.PageSize,
	})
}

func (h *AdminHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	f := h.listFilter(r)
	withdrawals, err := h.svc.ListWithdrawals(r.Context(), f)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"withdrawals": withdrawals,
		"page":        f.Page,
		"page_size":   f.PageSize,
	})
}

func (h *AdminHandler) ListInvestments(w http.ResponseWriter, r *http.Request) {
	f := h.listFilter(r)
	investments, err := h.svc.ListInvestments(r.Context(), f)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"investments": investments,
		"page":        f.Page,
		"page_size":   f.PageSize,
	})
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	f := h.listFilter(r)
	users, err := h.svc.ListUsers(r.Context(), f)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"users":     users,
		"page":      f.Page,
		"page_size": f.PageSize,
	})
}

// SetDepositStatus transitions a deposit; approving credits the balance.
func (h *AdminHandler) SetDepositStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-id", "Invalid deposit id")
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	deposit, err := h.svc.SetDepositStatus(r.Context(), id, req.Status)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, deposit)
}

func (h *AdminHandler) SetWithdrawalStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-id", "Invalid withdrawal id")
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	withdrawal, err := h.svc.SetWithdrawalStatus(r.Context(), id, req.Status)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, withdrawal)
}

func (h *AdminHandler) DeleteDeposit(w http.ResponseWriter, r *http.Request) {
	h.deleteRecord(w, r, h.svc.DeleteDeposit)
}

func (h *AdminHandler) DeleteWithdrawal(w http.ResponseWriter, r *http.Request) {
	h.deleteRecord(w, r, h.svc.DeleteWithdrawal)
}

func (h *AdminHandler) DeleteInvestment(w http.ResponseWriter, r *http.Request) {
	h.deleteRecord(w, r, h.svc.DeleteInvestment)
}

func (h *AdminHandler) deleteRecord(w http.ResponseWriter, r *http.Request, del func(context.Context, uuid.UUID) error) {
	id, err := pathID(r, "id")
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-id", "Invalid record id")
		return
	}
	if err := del(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetUserSuspended flips the suspension flag; suspended users keep read
// access but cannot submit new requests.
func (h *AdminHandler) SetUserSuspended(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-id", "Invalid user id")
		return
	}
	var req struct {
		Suspended bool `json:"suspended"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}

	if err := h.svc.SetUserSuspended(r.Context(), id, req.Suspended); err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"user_id":   id,
		"suspended": req.Suspended,
	})
}

// DeleteUser removes the profile and, via cascading deletes, every ledger
// record belonging to it.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-id", "Invalid user id")
		return
	}
	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type planRequest struct {
	Name         string `json:"name"`
	DailyRate    string `json:"daily_rate"`
	DurationDays int    `json:"duration_days"`
	MinAmount    string `json:"min_amount"`
}

func (req planRequest) toInput() (service.PlanInput, error) {
	rate, err := decimal.NewFromString(req.DailyRate)
	if err != nil {
		return service.PlanInput{}, err
	}
	minMicros, err := domain.ParseAmount(req.MinAmount)
	if err != nil {
		return service.PlanInput{}, err
	}
	return service.PlanInput{
		Name:            req.Name,
		DailyRate:       rate,
		DurationDays:    req.DurationDays,
		MinAmountMicros: minMicros,
	}, nil
}

func (h *AdminHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-plan", "Invalid daily_rate or min_amount")
		return
	}

	plan, err := h.svc.CreatePlan(r.Context(), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusCreated, plan)
}

func (h *AdminHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-id", "Invalid plan id")
		return
	}
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-plan", "Invalid daily_rate or min_amount")
		return
	}

	plan, err := h.svc.UpdatePlan(r.Context(), id, in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, plan)
}

func (h *AdminHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-id", "Invalid plan id")
		return
	}
	if err := h.svc.DeletePlan(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
