package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/stylecast-backend/internal/logger"
)

const (
	EventTaskStarted   = "task_started"
	EventTaskProgress  = "task_progress"
	EventTaskCompleted = "task_completed"
	EventTaskFailed    = "task_failed"
)

// IsTerminalEvent reports whether no further events follow for the task.
func IsTerminalEvent(eventName string) bool {
	return eventName == EventTaskCompleted || eventName == EventTaskFailed
}

type Event struct {
	TaskID string `json:"taskId"`
	Name   string `json:"event"`
	Data   any    `json:"data,omitempty"`
}

type Subscriber struct {
	ID        uuid.UUID
	TaskID    string
	Events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

func (s *Subscriber) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		close(s.Events)
	})
}

// Hub fans task lifecycle events out to per-task subscribers. Subscribe and
// Unsubscribe may race with Publish; publishing for one task id is only ever
// done by that task's own worker.
type Hub struct {
	mu            sync.RWMutex
	log           *logger.Logger
	subscriptions map[string]map[*Subscriber]bool
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:           log.With("component", "SSEHub"),
		subscriptions: make(map[string]map[*Subscriber]bool),
	}
}

func (hub *Hub) Subscribe(taskID string) *Subscriber {
	sub := &Subscriber{
		ID:     uuid.New(),
		TaskID: taskID,
		Events: make(chan Event, 16),
		done:   make(chan struct{}),
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()
	subs, exists := hub.subscriptions[taskID]
	if !exists {
		subs = make(map[*Subscriber]bool)
		hub.subscriptions[taskID] = subs
	}
	subs[sub] = true
	hub.log.Debug("SSE subscriber added", "subscriberID", sub.ID, "taskID", taskID)
	return sub
}

func (hub *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}
	hub.mu.Lock()
	if subs, ok := hub.subscriptions[sub.TaskID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(hub.subscriptions, sub.TaskID)
		}
	}
	hub.mu.Unlock()
	sub.close()
}

// Publish delivers an event to every live subscriber of the task. A subscriber
// whose buffer is full is dropped without affecting the others. Terminal events
// close and remove every subscriber for the task id afterwards.
func (hub *Hub) Publish(taskID, eventName string, data any) {
	event := Event{TaskID: taskID, Name: eventName, Data: data}

	hub.mu.RLock()
	subs := make([]*Subscriber, 0, len(hub.subscriptions[taskID]))
	for sub := range hub.subscriptions[taskID] {
		subs = append(subs, sub)
	}
	hub.mu.RUnlock()

	var dead []*Subscriber
	for _, sub := range subs {
		select {
		case sub.Events <- event:
		case <-sub.done:
			dead = append(dead, sub)
		default:
			hub.log.Warn("Dropping SSE subscriber; outbound buffer full", "subscriberID", sub.ID, "taskID", taskID)
			dead = append(dead, sub)
		}
	}
	for _, sub := range dead {
		hub.Unsubscribe(sub)
	}

	if IsTerminalEvent(eventName) {
		hub.closeAll(taskID)
	}
}

func (hub *Hub) closeAll(taskID string) {
	hub.mu.Lock()
	subs := hub.subscriptions[taskID]
	delete(hub.subscriptions, taskID)
	hub.mu.Unlock()

	for sub := range subs {
		sub.close()
	}
}

// SubscriberCount is used by tests and diagnostics.
func (hub *Hub) SubscriberCount(taskID string) int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.subscriptions[taskID])
}

// ServeHTTP streams a subscriber's events until the client disconnects or the
// hub closes the subscriber after a terminal event.
func (hub *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request, sub *Subscriber) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	ctx := r.Context()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			hub.log.Debug("SSE client context done", "subscriberID", sub.ID, "err", ctx.Err())
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case event, open := <-sub.Events:
			if !open {
				return
			}
			payload, err := json.Marshal(event.Data)
			if err != nil {
				hub.log.Warn("Failed to marshal SSE event payload", "error", err)
				continue
			}
			_, _ = fmt.Fprintf(w, "event: %s\nid: %s\ndata: %s\n\n", event.Name, event.TaskID, payload)
			flusher.Flush()
		}
	}
}
