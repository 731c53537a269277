package handler

import (
	"encoding/json"
	"net/http"

	"github.com/profitbridge/platform-api/internal/service"
)

type SupportHandler struct {
	svc      *service.SupportService
	pageSize int
}

func NewSupportHandler(svc *service.SupportService, pageSize int) *SupportHandler {
	return &SupportHandler{svc: svc, pageSize: pageSize}
}

// Open files a new support ticket for the caller.
func (h *SupportHandler) Open(w http.ResponseWriter, r *http.Request) {
	actorID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthenticated", err.Error())
		return
	}

	var req struct {
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid JSON body")
		return
	}
	if req.Subject == "" || req.Message == "" {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-ticket", "subject and message are required")
		return
	}

	ticket, err := h.svc.Open(r.Context(), actorID, req.Subject, req.Message)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusCreated, ticket)
}

// ListMine returns the caller's tickets, newest first.
func (h *SupportHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actorID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthenticated", err.Error())
		return
	}

	page, size := pageParams(r, h.pageSize)
	tickets, err := h.svc.ListMine(r.Context(), actorID, page, size)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"tickets":   tickets,
		"page":      page,
		"page_size": size,
	})
}

// ListAll is the admin queue: ?subject= searches, ?status= filters.
func (h *SupportHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r, h.pageSize)
	tickets, err := h.svc.ListAll(r.Context(),
		r.URL.Query().Get("subject"), r.URL.Query().Get("status"), page, size)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"tickets":   tickets,
		"page":      page,
		"page_size": size,
	})
}

// SetStatus flips a ticket between open and closed.
func (h *SupportHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-id", "Invalid ticket id")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "Invalid JSON body")
		return
	}

	if err := h.svc.SetStatus(r.Context(), id, req.Status); err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// Delete removes a ticket.
func (h *SupportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-id", "Invalid ticket id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
