package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Hub is the in-process Registry.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]map[Conn]struct{})}
}

func (h *Hub) Subscribe(userId string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.conns[userId]
	if !ok {
		set = make(map[Conn]struct{})
		h.conns[userId] = set
	}
	set[conn] = struct{}{}
}

func (h *Hub) Unsubscribe(userId string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.conns[userId]
	if !ok {
		return
	}
	delete(set, conn)
	if len(set) == 0 {
		delete(h.conns, userId)
	}
}

// Publish sends to every connection of userId. A user with no connections is
// not an error; the event is dropped.
func (h *Hub) Publish(ctx context.Context, userId string, event Event) error {
	h.mu.RLock()
	targets := make([]Conn, 0, len(h.conns[userId]))
	for conn := range h.conns[userId] {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	var errs []error
	for _, conn := range targets {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := conn.Send(event); err != nil {
			errs = append(errs, fmt.Errorf("user %s: %w", userId, err))
		}
	}

	return errors.Join(errs...)
}

// Connections reports how many live connections userId has.
func (h *Hub) Connections(userId string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.conns[userId])
}
