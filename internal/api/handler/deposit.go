package handler

import (
	"encoding/json"
	"net/http"

	"github.com/profitbridge/platform-api/internal/domain"
	"github.com/profitbridge/platform-api/internal/service"
)

type DepositHandler struct {
	svc      *service.DepositService
	pageSize int
}

func NewDepositHandler(svc *service.DepositService, pageSize int) *DepositHandler {
	return &DepositHandler{svc: svc, pageSize: pageSize}
}

// Submit records a pending deposit claim for the authenticated user.
func (h *DepositHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actorID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthenticated", err.Error())
		return
	}

	var req struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
		TxRef    string `json:"tx_ref"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid request body")
		return
	}
	amountMicros, err := domain.ParseAmount(req.Amount)
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-amount", err.Error())
		return
	}

	deposit, err := h.svc.Submit(r.Context(), actorID, service.SubmitDepositRequest{
		AmountMicros: amountMicros,
		Currency:     req.Currency,
		TxRef:        req.TxRef,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusCreated, deposit)
}

// History lists the caller's deposits, newest first.
func (h *DepositHandler) History(w http.ResponseWriter, r *http.Request) {
	actorID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthenticated", err.Error())
		return
	}

	page, size := pageParams(r, h.pageSize)
	deposits, err := h.svc.History(r.Context(), actorID, page, size)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"deposits":  deposits,
		"page":      page,
		"page_size": size,
	})
}
