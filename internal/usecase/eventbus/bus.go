// Package eventbus delivers onboarding events to in-process subscribers.
package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"bloop/internal/domain"
)

const defaultQueueSize = 64

type subscription struct {
	id      uint64
	types   map[domain.EventType]bool // nil matches every type
	handler domain.EventHandler
	queue   chan delivery
	stop    chan struct{}
	done    chan struct{}
}

type delivery struct {
	ctx   context.Context
	event domain.Event
}

func (s *subscription) matches(t domain.EventType) bool {
	return s.types == nil || s.types[t]
}

// Bus is an in-process, goroutine-safe event bus. Each subscriber has its
// own queue and worker, so a subscriber sees events in publish order.
type Bus struct {
	mu        sync.RWMutex
	subs      []*subscription
	nextID    uint64
	queueSize int
	logger    *slog.Logger
	wg        sync.WaitGroup
	closed    bool
}

// Option configures a Bus.
type Option func(*Bus)

// WithQueueSize sets the per-subscriber buffer. Publish blocks while a
// subscriber's buffer is full.
func WithQueueSize(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.queueSize = n
		}
	}
}

// New creates an event bus.
func New(logger *slog.Logger, opts ...Option) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bus{queueSize: defaultQueueSize, logger: logger}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Publish queues event for every matching subscriber. It implements
// domain.EventPublisher. Publishing on a closed bus is a no-op.
func (b *Bus) Publish(ctx context.Context, event domain.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, sub := range b.subs {
		if !sub.matches(event.Type) {
			continue
		}
		d := delivery{ctx: ctx, event: event}
		select {
		case sub.queue <- d:
			continue
		default:
		}
		select {
		case sub.queue <- d:
		case <-sub.stop:
		case <-ctx.Done():
			b.logger.Warn("event dropped", "event", string(event.Type), "error", ctx.Err())
			return
		}
	}
}

// Subscribe registers handler for the given event types, or for every
// event when no type is given. It returns an unsubscribe function; events
// already queued for the handler are still delivered. The unsubscribe
// function waits for that drain and must not be called from handler.
func (b *Bus) Subscribe(handler domain.EventHandler, types ...domain.EventType) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &subscription{
		id:      b.nextID,
		handler: handler,
		queue:   make(chan delivery, b.queueSize),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if len(types) > 0 {
		sub.types = make(map[domain.EventType]bool, len(types))
		for _, t := range types {
			sub.types[t] = true
		}
	}
	if b.closed {
		close(sub.stop)
		close(sub.done)
		return func() {}
	}
	b.subs = append(b.subs, sub)

	b.wg.Add(1)
	go b.run(sub)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			for i, s := range b.subs {
				if s.id == sub.id {
					b.subs = append(b.subs[:i], b.subs[i+1:]...)
					close(sub.stop)
					break
				}
			}
			b.mu.Unlock()
			<-sub.done
		})
	}
}

func (b *Bus) run(sub *subscription) {
	defer b.wg.Done()
	defer close(sub.done)
	for {
		select {
		case d := <-sub.queue:
			b.deliver(sub, d)
		case <-sub.stop:
			for {
				select {
				case d := <-sub.queue:
					b.deliver(sub, d)
				default:
					return
				}
			}
		}
	}
}

func (b *Bus) deliver(sub *subscription, d delivery) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				"event", string(d.event.Type),
				"panic", r,
			)
		}
	}()
	sub.handler(d.ctx, d.event)
}

// Close rejects new publishes, then waits until every subscriber has
// drained its queue. Close is idempotent.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, sub := range b.subs {
		close(sub.stop)
	}
	b.subs = nil
	b.mu.Unlock()
	b.wg.Wait()
}

var _ domain.EventPublisher = (*Bus)(nil)
