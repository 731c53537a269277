package feed

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHubFiltersByUser(t *testing.T) {
	hub := NewHub()
	alice := uuid.New()
	bob := uuid.New()

	aliceCh, cancelAlice := hub.Subscribe(alice)
	defer cancelAlice()
	bobCh, cancelBob := hub.Subscribe(bob)
	defer cancelBob()

	hub.Publish(Event{Table: "deposits", Op: "INSERT", UserID: alice})

	ev := recvEvent(t, aliceCh)
	assert.Equal(t, alice, ev.UserID)

	select {
	case <-bobCh:
		t.Fatal("bob received alice's event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubNilSubscriberReceivesEverything(t *testing.T) {
	hub := NewHub()
	adminCh, cancel := hub.Subscribe(uuid.Nil)
	defer cancel()

	hub.Publish(Event{Table: "deposits", Op: "INSERT", UserID: uuid.New()})
	hub.Publish(Event{Table: "withdrawals", Op: "UPDATE", UserID: uuid.New()})

	assert.Equal(t, "deposits", recvEvent(t, adminCh).Table)
	assert.Equal(t, "withdrawals", recvEvent(t, adminCh).Table)
}

func TestHubDropsWhenSubscriberLags(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	ch, cancel := hub.Subscribe(userID)
	defer cancel()

	// Never read: the buffer fills and publishes must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			hub.Publish(Event{Table: "deposits", Op: "INSERT", UserID: userID})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a lagging subscriber")
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestHubCancelClosesChannel(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe(uuid.New())

	require.Equal(t, 1, hub.SubscriberCount())
	cancel()
	assert.Equal(t, 0, hub.SubscriberCount())

	_, open := <-ch
	assert.False(t, open)

	// Second cancel is a no-op.
	cancel()
}
