package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"vaultsbx/gateway/pkg/config"
	"vaultsbx/gateway/pkg/telemetry/logging"
)

// ConsoleHub fans live gateway events out to SSE subscribers. It
// implements http.Handler for the /events endpoint.
type ConsoleHub struct {
	cfg config.SSEConsoleConfig
	log *logging.Logger

	mu      sync.Mutex
	clients map[chan []byte]struct{}
	closed  bool
}

// NewConsoleHub creates a hub from the console section of the snapshot.
func NewConsoleHub(cfg config.SSEConsoleConfig, log *logging.Logger) *ConsoleHub {
	return &ConsoleHub{
		cfg:     cfg,
		log:     log,
		clients: make(map[chan []byte]struct{}),
	}
}

// Publish broadcasts an event to all connected subscribers. Slow
// subscribers are skipped rather than blocking the publisher.
func (h *ConsoleHub) Publish(event string, data []byte) {
	frame := []byte("event: " + event + "\ndata: " + string(data) + "\n\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- frame:
		default:
		}
	}
}

// Subscribers reports the current subscriber count.
func (h *ConsoleHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all subscribers and refuses new ones.
func (h *ConsoleHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.clients {
		close(ch)
		delete(h.clients, ch)
	}
}

// subscribe registers a client channel, enforcing the subscriber cap.
func (h *ConsoleHub) subscribe() (chan []byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, fmt.Errorf("console hub is closed")
	}
	if h.cfg.MaxClients > 0 && len(h.clients) >= h.cfg.MaxClients {
		return nil, fmt.Errorf("subscriber limit reached (%d)", h.cfg.MaxClients)
	}
	ch := make(chan []byte, 16)
	h.clients[ch] = struct{}{}
	return ch, nil
}

func (h *ConsoleHub) unsubscribe(ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
}

// ServeHTTP streams events to one subscriber until it disconnects.
func (h *ConsoleHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.Enabled {
		http.Error(w, "console stream is disabled", http.StatusNotFound)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch, err := h.subscribe()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer h.unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Advertise the reconnect delay before the first event.
	fmt.Fprintf(w, "retry: %d\n\n", h.cfg.RetryMillis)
	flusher.Flush()

	// The build rejects non-positive heartbeats, but the hub is also
	// constructible directly; NewTicker panics on a zero interval.
	interval := time.Duration(h.cfg.HeartbeatSeconds) * time.Second
	if interval <= 0 {
		interval = time.Duration(config.DefaultSSEHeartbeatSeconds) * time.Second
	}
	heartbeat := time.NewTicker(interval)
	defer heartbeat.Stop()

	for {
		select {
		case frame, ok := <-ch:
			if !ok {
				return
			}
			if _, err := w.Write(frame); err != nil {
				return
			}
			flusher.Flush()

		case <-heartbeat.C:
			// Comment lines keep idle connections alive through proxies.
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
