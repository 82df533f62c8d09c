package events

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
)

const defaultChannelBuffer = 64

// Hub provides pub/sub for session events.
type Hub interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(ctx context.Context, kinds ...Kind) (<-chan Event, func(), error)
}

// subscriber holds a channel and the kinds it listens to.
type subscriber struct {
	ch    chan Event
	kinds []Kind
}

// MemoryHub is an in-memory Hub using channels.
type MemoryHub struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscriber
	seq    atomic.Uint64
	buffer int
}

// HubOption configures a MemoryHub.
type HubOption func(h *MemoryHub)

// WithBuffer sets the channel capacity of every new subscriber.
func WithBuffer(size int) HubOption {
	return func(h *MemoryHub) {
		if size > 0 {
			h.buffer = size
		}
	}
}

// NewMemoryHub creates a new MemoryHub.
func NewMemoryHub(opts ...HubOption) *MemoryHub {
	h := &MemoryHub{
		subs:   make(map[uint64]*subscriber),
		buffer: defaultChannelBuffer,
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Publish sends an event to all matching subscribers.
// Non-blocking: if a subscriber's channel is full the event is dropped.
func (h *MemoryHub) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		if len(sub.kinds) > 0 && !slices.Contains(sub.kinds, event.Kind()) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			// slow subscriber
		}
	}

	return nil
}

// Subscribe registers a subscriber for the given kinds, or for every kind when none is given.
// The returned function cancels the subscription and closes the channel.
func (h *MemoryHub) Subscribe(ctx context.Context, kinds ...Kind) (<-chan Event, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	id := h.seq.Add(1)
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	h.subs[id] = &subscriber{ch: ch, kinds: kinds}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}

	return ch, cancel, nil
}

var _ Hub = (*MemoryHub)(nil)
