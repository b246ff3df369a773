package identity

import (
	"context"
	"sync"

	"github.com/rashad-agri/marketplace/internal/core/domain"
)

const subscriptionBuffer = 8

type subscription struct {
	ch   chan domain.AuthEvent
	done chan struct{}
}

// Hub hands auth events to the in-process subscribers of each session.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[*subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*subscription]struct{})}
}

// Subscribe streams the events of sid until ctx is done. The channel is
// never closed; receivers stop on ctx.
func (h *Hub) Subscribe(ctx context.Context, sid string) <-chan domain.AuthEvent {
	sub := &subscription{
		ch:   make(chan domain.AuthEvent, subscriptionBuffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	set, ok := h.subs[sid]
	if !ok {
		set = make(map[*subscription]struct{})
		h.subs[sid] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()

	context.AfterFunc(ctx, func() {
		h.mu.Lock()
		delete(h.subs[sid], sub)
		if len(h.subs[sid]) == 0 {
			delete(h.subs, sid)
		}
		h.mu.Unlock()
		close(sub.done)
	})
	return sub.ch
}

// Deliver passes ev to every subscriber of sid, waiting for slow receivers
// until they unsubscribe or ctx is done.
func (h *Hub) Deliver(ctx context.Context, sid string, ev domain.AuthEvent) {
	h.mu.Lock()
	targets := make([]*subscription, 0, len(h.subs[sid]))
	for s := range h.subs[sid] {
		targets = append(targets, s)
	}
	h.mu.Unlock()

	for _, s := range targets {
		select {
		case s.ch <- ev:
		case <-s.done:
		case <-ctx.Done():
			return
		}
	}
}

// Subscribers reports the number of live subscriptions of sid.
func (h *Hub) Subscribers(sid string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[sid])
}
