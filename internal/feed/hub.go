package feed

import (
	"sync"

	"github.com/google/uuid"
	"github.com/profitbridge/platform-api/internal/observability"
	"go.uber.org/zap"
)

// Event is one change-feed notification. UserID identifies the profile whose
// ledger changed; consumers re-derive state from the database, so events carry
// no row payload.
type Event struct {
	Table  string    `json:"table"`
	Op     string    `json:"op"`
	UserID uuid.UUID `json:"user_id"`
}

const subscriberBuffer = 16

type subscriber struct {
	userID uuid.UUID
	ch     chan Event
}

// Hub fans change-feed events out to live subscribers. A subscription made
// with uuid.Nil receives every event; any other ID receives only events for
// that profile. Delivery is lossy: a subscriber that falls behind drops
// events rather than stalling the hub, since a dropped event only delays the
// next recompute until the following one.
type Hub struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Subscribe registers a listener and returns its channel plus a cancel
// function. Cancel must be called exactly once; the channel is closed by it.
func (h *Hub) Subscribe(userID uuid.UUID) (<-chan Event, func()) {
	sub := &subscriber{userID: userID, ch: make(chan Event, subscriberBuffer)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	observability.AddFeedSubscribers(1)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, sub)
			h.mu.Unlock()
			close(sub.ch)
			observability.AddFeedSubscribers(-1)
		})
	}
	return sub.ch, cancel
}

// Publish delivers an event to every matching subscriber without blocking.
func (h *Hub) Publish(ev Event) {
	observability.IncrementFeedEvent(ev.Table, ev.Op)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		if sub.userID != uuid.Nil && sub.userID != ev.UserID {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			zap.L().Debug("feed subscriber lagging, event dropped",
				zap.String("table", ev.Table),
				zap.String("user_id", ev.UserID.String()))
		}
	}
}

// SubscriberCount reports how many subscriptions are currently open.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
