package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/profitbridge/platform-api/internal/feed"
	"github.com/profitbridge/platform-api/internal/service"
)

const streamHeartbeat = 30 * time.Second

// StreamHandler exposes the change feed over Server-Sent Events. Whenever a
// ledger table changes it recomputes the affected user's snapshot and pushes
// the full result; clients replace state wholesale, never patch it.
type StreamHandler struct {
	hub *feed.Hub
	svc *service.SnapshotService
}

func NewStreamHandler(hub *feed.Hub, svc *service.SnapshotService) *StreamHandler {
	return &StreamHandler{hub: hub, svc: svc}
}

// Stream subscribes the caller to their own ledger events. Admins may pass
// ?scope=all to receive every user's events.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	actorID, isAdmin, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/unauthenticated", err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		RespondError(w, r, http.StatusInternalServerError, "stream/unsupported", "streaming not supported")
		return
	}

	filter := actorID
	if isAdmin && r.URL.Query().Get("scope") == "all" {
		filter = uuid.Nil
	}

	events, cancel := h.hub.Subscribe(filter)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Initial state so a fresh subscriber never waits for the first change.
	h.emitSnapshot(w, flusher, r, actorID)

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case ev, open := <-events:
			if !open {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: ledger\ndata: %s\n\n", payload)

			subject := ev.UserID
			if filter != uuid.Nil {
				subject = actorID
			}
			h.emitSnapshot(w, flusher, r, subject)
		}
	}
}

// emitSnapshot re-derives the subject's snapshot from the database and writes
// it as a snapshot event. A failed read is logged and skipped; the next event
// or the client's own GET recovers the state.
func (h *StreamHandler) emitSnapshot(w http.ResponseWriter, flusher http.Flusher, r *http.Request, subject uuid.UUID) {
	if subject == uuid.Nil {
		return
	}
	snap, err := h.svc.Snapshot(r.Context(), subject)
	if err != nil {
		zap.L().Warn("stream snapshot recompute failed",
			zap.String("user_id", subject.String()), zap.Error(err))
		return
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", payload)
	flusher.Flush()
}
