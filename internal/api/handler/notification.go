package handler

import (
	"net/http"

	"github.com/profitbridge/platform-api/internal/service"
)

type NotificationHandler struct {
	svc      *service.NotificationService
	pageSize int
}

func NewNotificationHandler(svc *service.NotificationService, pageSize int) *NotificationHandler {
	return &NotificationHandler{svc: svc, pageSize: pageSize}
}

// List returns the caller's notifications, newest first, with the unread count.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthenticated", err.Error())
		return
	}

	page, size := pageParams(r, h.pageSize)
	result, err := h.svc.List(r.Context(), actorID, page, size)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": result.Notifications,
		"unread":        result.Unread,
		"page":          page,
		"page_size":     size,
	})
}

// MarkRead acknowledges a single notification.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actorID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthenticated", err.Error())
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-id", "Invalid notification id")
		return
	}

	if err := h.svc.MarkRead(r.Context(), actorID, id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// MarkAllRead acknowledges everything the caller has.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	actorID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthenticated", err.Error())
		return
	}

	if err := h.svc.MarkAllRead(r.Context(), actorID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
