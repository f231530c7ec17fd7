package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const subscriberBuffer = 16

// BroadcastHook fans state events out to in-process subscribers, SSE
// streams and WebSocket clients. Slow subscribers drop events.
type BroadcastHook struct {
	mu      sync.RWMutex
	subs    map[int]subscriber
	next    int
	dropped atomic.Uint64
	closed  bool

	// KeepAlive is the SSE comment interval; zero disables pings.
	KeepAlive time.Duration

	// AllowedOrigins lists extra origins (scheme://host[:port]) allowed to
	// open the WebSocket. Same-host requests are always accepted.
	AllowedOrigins []string
}

type subscriber struct {
	ch     chan StateEvent
	slices []Slice
}

// NewBroadcastHook creates a broadcast hook.
func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{
		subs:      make(map[int]subscriber),
		KeepAlive: 15 * time.Second,
	}
}

// StateChanged satisfies RefreshHook.
func (h *BroadcastHook) StateChanged(_ context.Context, event StateEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if len(sub.slices) > 0 && !slices.Contains(sub.slices, event.Slice) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			h.dropped.Add(1)
		}
	}
	return nil
}

// Subscribe returns a channel of events for the given slices (all when
// none are given) and a cancel func.
func (h *BroadcastHook) Subscribe(filter ...Slice) (<-chan StateEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan StateEvent, subscriberBuffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	id := h.next
	h.next++
	h.subs[id] = subscriber{ch: ch, slices: slices.Clone(filter)}
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub.ch)
		}
	}
	return ch, cancel
}

// Subscribers reports the number of live subscriptions.
func (h *BroadcastHook) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped reports how many deliveries were skipped because a subscriber was full.
func (h *BroadcastHook) Dropped() uint64 {
	return h.dropped.Load()
}

// Close ends every subscription. Later subscriptions receive a closed channel.
func (h *BroadcastHook) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
	}
}

// ServeWebSocket upgrades the request and streams state events as JSON.
// The optional "slice" query parameters narrow the stream.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	filter, err := slicesFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	upgrader := websocket.Upgrader{CheckOrigin: h.checkOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel := h.Subscribe(filter...)
	defer cancel()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-gone:
			return
		case event, ok := <-events:
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

// checkOrigin accepts requests without an Origin header, same-host origins
// and the configured allow list.
func (h *BroadcastHook) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, allowed := range h.AllowedOrigins {
		if strings.EqualFold(strings.TrimRight(allowed, "/"), origin) {
			return true
		}
	}
	return false
}

// ServeSSE provides a Server-Sent Events endpoint. Each frame is named
// after the slice that changed.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	filter, err := slicesFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	events, cancel := h.Subscribe(filter...)
	defer cancel()

	flusher, _ := w.(http.Flusher)
	flush := func() {
		if flusher != nil {
			flusher.Flush()
		}
	}
	flush()

	var ping <-chan time.Time
	if h.KeepAlive > 0 {
		ticker := time.NewTicker(h.KeepAlive)
		defer ticker.Stop()
		ping = ticker.C
	}

	var id uint64
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ping:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flush()
		case event, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			id++
			if _, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", id, event.Slice, payload); err != nil {
				return
			}
			flush()
		}
	}
}

func slicesFromQuery(r *http.Request) ([]Slice, error) {
	raw := r.URL.Query()["slice"]
	out := make([]Slice, 0, len(raw))
	for _, value := range raw {
		slice, err := ParseSlice(value)
		if err != nil {
			return nil, err
		}
		out = append(out, slice)
	}
	return out, nil
}
