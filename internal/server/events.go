package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/claude/repcounter/internal/workout"
)

// EventHub fans engine events out to SSE subscribers.
type EventHub struct {
	mu   sync.Mutex
	subs map[chan workout.Event]struct{}
}

// NewEventHub creates an empty hub.
func NewEventHub() *EventHub {
	return &EventHub{subs: make(map[chan workout.Event]struct{})}
}

// Publish delivers ev to every subscriber without blocking. It is used as
// the engine observer, so it runs under the engine lock.
func (h *EventHub) Publish(ev workout.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			// slow subscriber, skip
		}
	}
}

// Subscribe registers a new buffered subscriber channel.
func (h *EventHub) Subscribe() chan workout.Event {
	ch := make(chan workout.Event, 32)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes ch from the hub.
func (h *EventHub) Unsubscribe(ch chan workout.Event) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
}

// Subscribers returns the number of connected subscribers.
func (h *EventHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// handleWorkoutEvents streams engine events as server-sent events. The
// current state is sent first as a "state" event.
func (s *Server) handleWorkoutEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.events.Subscribe()
	defer s.events.Unsubscribe(ch)

	fmt.Fprintf(w, "event: state\ndata: %s\n\n", mustJSON(s.engine.State()))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, mustJSON(ev.State))
			flusher.Flush()
		}
	}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `{}`
	}
	return string(b)
}
