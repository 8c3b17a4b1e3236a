package events

import (
	"context"
	"sync"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler) (unsubscribe func())
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// inMemoryDispatcher is a simple synchronous dispatcher.
type inMemoryDispatcher struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners map[EventType][]subscription
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{
		listeners: make(map[EventType][]subscription),
	}
}

// Publish synchronously invokes handlers for the given event, in
// subscription order. The first handler error is returned after every
// handler ran.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	subs := append([]subscription{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	var firstErr error
	for _, sub := range subs {
		if err := sub.handler(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Subscribe registers a handler for the given event type.
func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.listeners[eventType] = append(d.listeners[eventType], subscription{id: id, handler: handler})

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		subs := d.listeners[eventType]
		for i, sub := range subs {
			if sub.id == id {
				d.listeners[eventType] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}
