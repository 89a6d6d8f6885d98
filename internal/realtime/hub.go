package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// subscriberBuffer is the per-connection message backlog. A subscriber
	// that falls this far behind is dropped rather than allowed to stall
	// the broadcaster.
	subscriberBuffer = 100
	// deliveryTimeout bounds how long a broadcast waits on one subscriber.
	deliveryTimeout = time.Second
)

// Action tags a question_update payload.
type Action string

const (
	ActionCreated     Action = "created"
	ActionUpdated     Action = "updated"
	ActionLikeUpdated Action = "like_updated"
	ActionDeleted     Action = "deleted"
)

// Message is one server-sent event.
type Message struct {
	Event string
	Data  interface{}
}

// Format renders the message as an SSE frame (event name + JSON data line).
func (m Message) Format() string {
	data, err := json.Marshal(m.Data)
	if err != nil {
		data = []byte("{}")
	}
	return fmt.Sprintf("event: %s\ndata: %s\n\n", m.Event, data)
}

// Hub maintains event_id -> set of subscriber channels and fans out
// question lifecycle messages. Delivery is best-effort: subscribers that
// cannot accept a message within deliveryTimeout are unsubscribed, and
// reconcile by reconnecting and refetching.
type Hub struct {
	mu     sync.RWMutex
	events map[int64]map[chan Message]struct{}
	logger *zap.Logger
}

// NewHub creates an empty broadcast hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		events: make(map[int64]map[chan Message]struct{}),
		logger: logger,
	}
}

// Subscribe registers a new subscriber channel for an event and returns it.
func (h *Hub) Subscribe(eventID int64) chan Message {
	ch := make(chan Message, subscriberBuffer)
	h.mu.Lock()
	if h.events[eventID] == nil {
		h.events[eventID] = make(map[chan Message]struct{})
	}
	h.events[eventID][ch] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("subscriber joined", zap.Int64("event_id", eventID))
	return ch
}

// Unsubscribe removes a subscriber channel. Idempotent: removing a channel
// that is not registered is a no-op. The last subscriber to leave takes the
// event's registry entry with it.
func (h *Hub) Unsubscribe(eventID int64, ch chan Message) {
	h.mu.Lock()
	if subs, ok := h.events[eventID]; ok {
		delete(subs, ch)
		if len(subs) == 0 {
			delete(h.events, eventID)
		}
	}
	h.mu.Unlock()
	h.logger.Debug("subscriber left", zap.Int64("event_id", eventID))
}

// Broadcast delivers msg to every subscriber of the event. Subscribers are
// snapshotted first so concurrent subscribe/unsubscribe cannot corrupt the
// iteration; a subscriber whose buffer stays full past deliveryTimeout is
// treated as dead and removed.
func (h *Hub) Broadcast(eventID int64, msg Message) {
	h.mu.RLock()
	subs := make([]chan Message, 0, len(h.events[eventID]))
	for ch := range h.events[eventID] {
		subs = append(subs, ch)
	}
	h.mu.RUnlock()

	if len(subs) == 0 {
		return
	}

	timer := time.NewTimer(deliveryTimeout)
	defer timer.Stop()
	for _, ch := range subs {
		select {
		case ch <- msg:
		default:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(deliveryTimeout)
			select {
			case ch <- msg:
			case <-timer.C:
				h.Unsubscribe(eventID, ch)
				h.logger.Warn("dropped slow subscriber", zap.Int64("event_id", eventID))
			}
		}
	}
}

// QuestionUpdate broadcasts a question lifecycle change. The question value
// may be partial (e.g. id + likes_count for like updates); receivers treat
// it as a signal to refetch, not as authoritative state.
func (h *Hub) QuestionUpdate(eventID int64, action Action, question interface{}) {
	h.Broadcast(eventID, Message{
		Event: "question_update",
		Data: map[string]interface{}{
			"action":   action,
			"question": question,
		},
	})
}

// SubscriberCount returns the number of live subscribers for an event.
func (h *Hub) SubscriberCount(eventID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.events[eventID])
}
