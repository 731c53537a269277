package handler

import (
	"net/http"

	"github.com/profitbridge/platform-api/internal/service"
)

type SnapshotHandler struct {
	svc *service.SnapshotService
}

func NewSnapshotHandler(svc *service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{svc: svc}
}

// Get recomputes and returns the caller's financial snapshot.
func (h *SnapshotHandler) Get(w http.ResponseWriter, r *http.Request) {
	actorID, _, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthenticated", err.Error())
		return
	}

	snapshot, err := h.svc.Snapshot(r.Context(), actorID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, snapshot)
}
