package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	channelName      = "ledger_events"
	reconnectBackoff = 2 * time.Second
)

// Listener holds a dedicated connection on LISTEN ledger_events and forwards
// each notification to the hub. Database triggers emit one notification per
// ledger write, so every balance-affecting change reaches subscribers without
// polling.
type Listener struct {
	pool *pgxpool.Pool
	hub  *Hub
	log  *zap.Logger
}

func NewListener(pool *pgxpool.Pool, hub *Hub, log *zap.Logger) *Listener {
	return &Listener{pool: pool, hub: hub, log: log}
}

// Run blocks until ctx is cancelled, reconnecting with a fixed backoff when
// the listening connection drops.
func (l *Listener) Run(ctx context.Context) {
	for {
		if err := l.listen(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			l.log.Warn("change-feed listener disconnected", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectBackoff):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+channelName); err != nil {
		return err
	}
	l.log.Info("change-feed listener attached", zap.String("channel", channelName))

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		var ev Event
		if err := json.Unmarshal([]byte(notification.Payload), &ev); err != nil {
			l.log.Warn("malformed change-feed payload",
				zap.String("payload", notification.Payload), zap.Error(err))
			continue
		}
		l.hub.Publish(ev)
	}
}
