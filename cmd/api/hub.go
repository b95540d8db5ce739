package main

import (
	"errors"
	"fmt"
	"sync"

	v1 "github.com/PaulBabatuyi/discussions-gRPC/api/discussion/v1"
)

// DefaultQueueSize is how many undelivered events one Watch stream may hold.
const DefaultQueueSize = 64

// ErrSlowConsumer is returned by SendToUser when a stream's queue was full.
// The stream is dropped; its client reconnects and reads the backlog
// through ListMessages.
var ErrSlowConsumer = errors.New("watch stream fell behind")

// ConnectionHub fans events out to active Watch streams. Each stream owns a
// bounded queue drained by its Watch handler, so SendToUser never waits on
// the network.
type ConnectionHub struct {
	mu        sync.RWMutex
	queues    map[string]map[int64]chan *v1.MessageEvent
	nextID    int64
	queueSize int
}

// HubOption configures a ConnectionHub.
type HubOption func(*ConnectionHub)

// WithQueueSize sets the per-stream queue length.
func WithQueueSize(n int) HubOption {
	return func(h *ConnectionHub) {
		if n > 0 {
			h.queueSize = n
		}
	}
}

// NewConnectionHub creates a new hub instance.
func NewConnectionHub(opts ...HubOption) *ConnectionHub {
	h := &ConnectionHub{
		queues:    make(map[string]map[int64]chan *v1.MessageEvent),
		queueSize: DefaultQueueSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register opens a queue for userID. It returns the connection id for
// Unregister and the channel the stream reads events from. The channel is
// closed when the connection is unregistered.
func (h *ConnectionHub) Register(userID string) (int64, <-chan *v1.MessageEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.queues[userID]; !ok {
		h.queues[userID] = make(map[int64]chan *v1.MessageEvent)
	}

	h.nextID++
	q := make(chan *v1.MessageEvent, h.queueSize)
	h.queues[userID][h.nextID] = q
	return h.nextID, q
}

// Unregister removes a connection and closes its queue. Unknown ids are ignored.
func (h *ConnectionHub) Unregister(userID string, id int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.queues[userID]
	if !ok {
		return
	}
	if q, ok := conns[id]; ok {
		close(q)
		delete(conns, id)
	}
	if len(conns) == 0 {
		delete(h.queues, userID)
	}
}

// Connected reports the number of open streams of userID.
func (h *ConnectionHub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.queues[userID])
}

// SendToUser queues ev on every stream of userID without blocking. Streams
// whose queue is full are unregistered and ErrSlowConsumer is returned. A
// user with no stream is an error.
func (h *ConnectionHub) SendToUser(userID string, ev *v1.MessageEvent) error {
	// Queues are only closed under the write lock, so sending under the
	// read lock never hits a closed channel.
	h.mu.RLock()
	conns := h.queues[userID]
	if len(conns) == 0 {
		h.mu.RUnlock()
		return fmt.Errorf("user %s not connected", userID)
	}
	var full []int64
	for id, q := range conns {
		select {
		case q <- ev:
		default:
			full = append(full, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range full {
		h.Unregister(userID, id)
	}
	if len(full) > 0 {
		return fmt.Errorf("%w: %d stream(s) of user %s dropped", ErrSlowConsumer, len(full), userID)
	}
	return nil
}
