package sse

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/stylecast-backend/internal/logger"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	log, err := logger.New("test")
	require.NoError(t, err)
	return NewHub(log)
}

func TestPublishDeliversToTaskSubscribersOnly(t *testing.T) {
	hub := newTestHub(t)
	subA := hub.Subscribe("task-a")
	subB := hub.Subscribe("task-b")

	hub.Publish("task-a", EventTaskProgress, map[string]any{"progress": 45})

	event := <-subA.Events
	require.Equal(t, EventTaskProgress, event.Name)
	require.Equal(t, "task-a", event.TaskID)
	require.Empty(t, subB.Events)
}

func TestTerminalEventClosesAllSubscribers(t *testing.T) {
	hub := newTestHub(t)
	sub1 := hub.Subscribe("task-a")
	sub2 := hub.Subscribe("task-a")
	require.Equal(t, 2, hub.SubscriberCount("task-a"))

	hub.Publish("task-a", EventTaskCompleted, map[string]any{"status": "SUCCEEDED"})

	for _, sub := range []*Subscriber{sub1, sub2} {
		event, open := <-sub.Events
		require.True(t, open)
		require.Equal(t, EventTaskCompleted, event.Name)
		_, open = <-sub.Events
		require.False(t, open, "channel closes after the terminal event")
	}
	require.Zero(t, hub.SubscriberCount("task-a"))
}

func TestTaskFailedIsTerminal(t *testing.T) {
	hub := newTestHub(t)
	sub := hub.Subscribe("task-a")

	hub.Publish("task-a", EventTaskFailed, map[string]any{"error": "boom"})

	event, open := <-sub.Events
	require.True(t, open)
	require.Equal(t, EventTaskFailed, event.Name)
	_, open = <-sub.Events
	require.False(t, open)
	require.Zero(t, hub.SubscriberCount("task-a"))
}

func TestSlowSubscriberIsDroppedSilently(t *testing.T) {
	hub := newTestHub(t)
	slow := hub.Subscribe("task-a")

	// Overflow the subscriber's buffer without draining it.
	for i := 0; i < cap(slow.Events)+1; i++ {
		hub.Publish("task-a", EventTaskProgress, map[string]any{"progress": i})
	}
	require.Zero(t, hub.SubscriberCount("task-a"), "a full subscriber is removed")

	// The drop does not affect later subscribers.
	fresh := hub.Subscribe("task-a")
	hub.Publish("task-a", EventTaskProgress, map[string]any{"progress": 99})
	event := <-fresh.Events
	require.Equal(t, EventTaskProgress, event.Name)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	hub := newTestHub(t)
	sub := hub.Subscribe("task-a")

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)
	hub.Unsubscribe(nil)
	require.Zero(t, hub.SubscriberCount("task-a"))

	// Publishing to a task with no subscribers is a no-op.
	hub.Publish("task-a", EventTaskProgress, nil)
}

func TestIsTerminalEvent(t *testing.T) {
	require.True(t, IsTerminalEvent(EventTaskCompleted))
	require.True(t, IsTerminalEvent(EventTaskFailed))
	require.False(t, IsTerminalEvent(EventTaskStarted))
	require.False(t, IsTerminalEvent(EventTaskProgress))
}
