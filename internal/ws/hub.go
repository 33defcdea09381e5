package ws

import (
	"context"
	"log"
	"sync"
)

// event is one outbound message scoped to the job it concerns.
type event struct {
	jobID   int64
	payload []byte
}

// Hub fans match events out to subscribed clients. Register, unregister and
// delivery all happen on the Run goroutine; the mutex only guards reads from
// ClientCount.
type Hub struct {
	clients    map[*Client]struct{}
	events     chan event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		events:     make(chan event, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves the hub until ctx ends, then closes every client's send queue.
// Run must be called at most once.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				h.remove(c)
			}
			h.mu.Unlock()
			close(h.done)
			h.closePending()
			return

		case c := <-h.register:
			if c == nil {
				continue
			}
			h.mu.Lock()
			h.clients[c] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			h.logf("component=ws event=connected job_id=%d clients=%d", c.jobID, total)

		case c := <-h.unregister:
			if c == nil {
				continue
			}
			h.mu.Lock()
			h.remove(c)
			total := len(h.clients)
			h.mu.Unlock()
			h.logf("component=ws event=disconnected clients=%d", total)

		case evt := <-h.events:
			h.deliver(evt)
		}
	}
}

func (h *Hub) deliver(evt event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sent, dropped := 0, 0
	for c := range h.clients {
		if !c.wants(evt.jobID) {
			continue
		}
		select {
		case c.send <- evt.payload:
			sent++
		default:
			// A full queue means the peer stopped reading.
			h.remove(c)
			dropped++
		}
	}
	h.logf("component=ws event=delivered job_id=%d sent=%d dropped=%d", evt.jobID, sent, dropped)
}

// closePending closes clients still queued for registration at shutdown.
func (h *Hub) closePending() {
	for {
		select {
		case c := <-h.register:
			if c != nil {
				close(c.send)
			}
		default:
			return
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(c *Client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Register adds c to the hub. After Run has returned, c's send queue is
// closed right away so its write pump exits.
func (h *Hub) Register(c *Client) {
	if h == nil || c == nil {
		return
	}
	select {
	case <-h.done:
		close(c.send)
		return
	default:
	}
	select {
	case h.register <- c:
	case <-h.done:
		close(c.send)
	}
}

// Unregister removes c. It never blocks once Run has returned.
func (h *Hub) Unregister(c *Client) {
	if h == nil || c == nil {
		return
	}
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues payload for every client watching jobID. It never blocks;
// when the queue is full the event is dropped.
func (h *Hub) Publish(jobID int64, payload []byte) {
	if h == nil {
		return
	}
	select {
	case h.events <- event{jobID: jobID, payload: payload}:
	default:
		h.logf("component=ws event=publish_dropped job_id=%d reason=buffer_full", jobID)
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}
