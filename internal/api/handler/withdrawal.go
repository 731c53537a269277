package handler

import (
	"encoding/json"
	"net/http"

	"github.com/profitbridge/platform-api/internal/domain"
	"github.com/profitbridge/platform-api/internal/service"
)

type WithdrawalHandler struct {
	svc      *service.WithdrawalService
	pageSize int
}

func NewWithdrawalHandler(svc *service.WithdrawalService, pageSize int) *WithdrawalHandler {
	return &WithdrawalHandler{svc: svc, pageSize: pageSize}
}

// Submit reserves funds and records a processing withdrawal. The response
// includes the post-debit balance so clients can render it immediately.
func (h *WithdrawalHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actorID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthenticated", err.Error())
		return
	}

	var req struct {
		Amount        string `json:"amount"`
		Currency      string `json:"currency"`
		WalletAddress string `json:"wallet_address"`
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

	receipt, err := h.svc.Submit(r.Context(), actorID, service.SubmitWithdrawalRequest{
		AmountMicros:  amountMicros,
		Currency:      req.Currency,
		WalletAddress: req.WalletAddress,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusCreated, receipt)
}

// History lists the caller's withdrawals, newest first.
func (h *WithdrawalHandler) History(w http.ResponseWriter, r *http.Request) {
	actorID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthenticated", err.Error())
		return
	}

	page, size := pageParams(r, h.pageSize)
	withdrawals, err := h.svc.History(r.Context(), actorID, page, size)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"withdrawals": withdrawals,
		"page":        page,
		"page_size":   size,
	})
}
