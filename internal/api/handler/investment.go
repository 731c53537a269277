package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/profitbridge/platform-api/internal/domain"
	"github.com/profitbridge/platform-api/internal/service"
)

type InvestmentHandler struct {
	svc      *service.InvestmentService
	pageSize int
}

func NewInvestmentHandler(svc *service.InvestmentService, pageSize int) *InvestmentHandler {
	return &InvestmentHandler{svc: svc, pageSize: pageSize}
}

// decodeInvestRequest parses the shared submit/quote body: a plan ID and a
// decimal-string amount ("250.00"). Writes the error response itself.
func decodeInvestRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, int64, bool) {
	var req struct {
		PlanID string `json:"plan_id"`
		Amount string `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return uuid.Nil, 0, false
	}
	planID, err := uuid.Parse(req.PlanID)
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-plan-id", "Invalid plan_id")
		return uuid.Nil, 0, false
	}
	amountMicros, err := domain.ParseAmount(req.Amount)
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-amount", err.Error())
		return uuid.Nil, 0, false
	}
	return planID, amountMicros, true
}

// Submit debits the balance and opens an active investment.
func (h *InvestmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actorID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthenticated", err.Error())
		return
	}

	planID, amountMicros, ok := decodeInvestRequest(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Submit(r.Context(), actorID, service.SubmitInvestmentRequest{
		PlanID:       planID,
		AmountMicros: amountMicros,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusCreated, result)
}

// Quote projects the profit for a plan and amount without committing funds.
func (h *InvestmentHandler) Quote(w http.ResponseWriter, r *http.Request) {
	actorID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthenticated", err.Error())
		return
	}

	planID, amountMicros, ok := decodeInvestRequest(w, r)
	if !ok {
		return
	}

	quote, err := h.svc.Quote(r.Context(), actorID, planID, amountMicros)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, quote)
}

// Plans lists the available investment plans.
func (h *InvestmentHandler) Plans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.svc.Plans(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"plans": plans})
}

// History lists the caller's investments, newest first.
func (h *InvestmentHandler) History(w http.ResponseWriter, r *http.Request) {
	actorID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthenticated", err.Error())
		return
	}

	page, size := pageParams(r, h.pageSize)
	investments, err := h.svc.History(r.Context(), actorID, page, size)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"investments": investments,
		"page":        page,
		"page_size":   size,
	})
}
