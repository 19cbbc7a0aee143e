package event

import (
	"context"
	"sync"
)

// MatchStartHandler and MatchEndHandler run on the publisher's goroutine.
// Handlers are expected to be bounded and non-blocking.
type (
	MatchStartHandler func(ctx context.Context, ev MatchStartEvent)
	MatchEndHandler   func(ctx context.Context, ev MatchEndEvent)
)

// Subscription removes a registered handler when cancelled. Cancelling
// twice is safe.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

// Bus delivers match lifecycle notifications to registered handlers.
// Publishing is concurrent-safe; handlers registered during a publish are
// not invoked for that publish.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	starts map[int]MatchStartHandler
	ends   map[int]MatchEndHandler
}

func NewBus() *Bus {
	return &Bus{
		starts: make(map[int]MatchStartHandler),
		ends:   make(map[int]MatchEndHandler),
	}
}

func (b *Bus) SubscribeMatchStart(h MatchStartHandler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.starts[id] = h

	return &Subscription{cancel: func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.starts, id)
	}}
}

func (b *Bus) SubscribeMatchEnd(h MatchEndHandler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.ends[id] = h

	return &Subscription{cancel: func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.ends, id)
	}}
}

func (b *Bus) PublishMatchStart(ctx context.Context, ev MatchStartEvent) {
	b.mu.RLock()
	handlers := make([]MatchStartHandler, 0, len(b.starts))
	for _, h := range b.starts {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, ev)
	}
}

func (b *Bus) PublishMatchEnd(ctx context.Context, ev MatchEndEvent) {
	b.mu.RLock()
	handlers := make([]MatchEndHandler, 0, len(b.ends))
	for _, h := range b.ends {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, ev)
	}
}
