// Package events is a small in-process publish/subscribe bus. Subscribers run
// on their own goroutine; their errors and panics are logged and never reach
// the publisher.
package events

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type Event interface {
	Name() string
}

type Handler func(ctx context.Context, event Event) error

type Bus interface {
	Subscribe(eventName, subscriber string, handler Handler)
	Publish(ctx context.Context, event Event)
	// Close waits for in-flight handlers. Later publishes are dropped.
	Close()
}

type subscription struct {
	name    string
	handler Handler
}

type bus struct {
	mu             sync.RWMutex
	subs           map[string][]subscription
	inflight       sync.WaitGroup
	closed         bool
	handlerTimeout time.Duration
}

func NewBus(handlerTimeout time.Duration) Bus {
	if handlerTimeout <= 0 {
		handlerTimeout = 30 * time.Second
	}
	return &bus{
		subs:           make(map[string][]subscription),
		handlerTimeout: handlerTimeout,
	}
}

func (b *bus) Subscribe(eventName, subscriber string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[eventName] = append(b.subs[eventName], subscription{name: subscriber, handler: handler})
}

func (b *bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		log.WithField("event", event.Name()).Warn("Event bus closed, dropping event")
		return
	}

	// Handlers outlive the request that published the event.
	base := context.WithoutCancel(ctx)

	for _, sub := range b.subs[event.Name()] {
		b.inflight.Add(1)
		go b.dispatch(base, sub, event)
	}
}

func (b *bus) dispatch(ctx context.Context, sub subscription, event Event) {
	defer b.inflight.Done()

	logCtx := log.WithFields(log.Fields{
		"event":      event.Name(),
		"subscriber": sub.name,
	})

	defer func() {
		if r := recover(); r != nil {
			logCtx.WithField("panic", r).Error("Event subscriber panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, b.handlerTimeout)
	defer cancel()

	if err := sub.handler(ctx, event); err != nil {
		logCtx.WithError(err).Warn("Event subscriber failed")
	}
}

func (b *bus) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()

	b.inflight.Wait()
}
