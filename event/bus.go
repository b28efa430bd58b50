package event

import (
	"context"
	"log/slog"
	"reflect"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	workerCount = 8
	queueSize   = 256
)

// Event is a marker interface that all events must implement.
type Event[T any] interface {
	Event()
}

// Handler handles events of type T. Handlers do not return errors and are
// executed asynchronously on the bus worker pool.
type Handler[T any] func(context.Context, T)

type Bus struct {
	ctx         context.Context
	cancel      context.CancelFunc
	subscribers map[reflect.Type][]subscriber
	mu          sync.RWMutex
	wg          sync.WaitGroup
	closed      atomic.Bool

	workQueue chan workItem

	metrics *busMetricsProvider
}

type workItem struct {
	event     any
	eventType string
	invoke    func(context.Context, any)
}

type subscriber struct {
	id     uuid.UUID
	invoke func(context.Context, any)
}

type Subscription struct {
	bus       *Bus
	eventType reflect.Type
	id        uuid.UUID
	once      sync.Once
}

func NewBus(metricsRegistry *prometheus.Registry) *Bus {
	ctx, cancel := context.WithCancel(context.Background())

	bus := &Bus{
		ctx:         ctx,
		cancel:      cancel,
		subscribers: make(map[reflect.Type][]subscriber),
		workQueue:   make(chan workItem, queueSize),
		metrics:     newBusMetricsProvider(metricsRegistry),
	}

	for range workerCount {
		bus.wg.Add(1)
		go bus.worker()
	}

	return bus
}

func (bus *Bus) worker() {
	defer bus.wg.Done()

	for {
		select {
		case <-bus.ctx.Done():
			return
		case item, ok := <-bus.workQueue:
			if !ok {
				return
			}
			bus.deliver(item)
		}
	}
}

func (bus *Bus) deliver(item workItem) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(bus.ctx, "panic in event handler",
				"error", r,
				"event_type", item.eventType,
				"stack", string(debug.Stack()),
			)
		}
	}()

	item.invoke(bus.ctx, item.event)
	bus.metrics.IncrementDelivered(item.eventType)
}

// Subscribe registers a handler for events of type T. The handler runs
// asynchronously whenever an event of type T is published.
func Subscribe[T Event[T]](bus *Bus, handler Handler[T]) *Subscription {
	if bus.closed.Load() {
		slog.WarnContext(bus.ctx, "attempted to subscribe to closed event bus")
		return &Subscription{bus: bus}
	}

	var zero T
	eventType := reflect.TypeOf(zero)

	id := uuid.New()
	sub := subscriber{
		id: id,
		invoke: func(ctx context.Context, event any) {
			if typedEvent, ok := event.(T); ok {
				handler(ctx, typedEvent)
			}
		},
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers[eventType] = append(bus.subscribers[eventType], sub)

	return &Subscription{
		bus:       bus,
		eventType: eventType,
		id:        id,
	}
}

// Unsubscribe removes the subscription. Safe to call multiple times.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		defer s.bus.mu.Unlock()

		if s.bus.closed.Load() {
			return
		}

		subscribers := s.bus.subscribers[s.eventType]
		for i, sub := range subscribers {
			if sub.id == s.id {
				s.bus.subscribers[s.eventType] = append(subscribers[:i], subscribers[i+1:]...)
				break
			}
		}
	})
}

// Publish queues an event for all registered handlers of its type. Delivery
// is asynchronous; if the work queue is full the event is dropped rather than
// blocking the publisher.
func Publish[T Event[T]](bus *Bus, event T) {
	if bus.closed.Load() {
		slog.DebugContext(bus.ctx, "attempted to publish to closed event bus")
		return
	}

	eventType := reflect.TypeOf(event)
	eventTypeName := eventType.String()

	bus.mu.RLock()
	subs := bus.subscribers[eventType]
	subsCopy := make([]subscriber, len(subs))
	copy(subsCopy, subs)
	bus.mu.RUnlock()

	for _, sub := range subsCopy {
		item := workItem{
			event:     event,
			eventType: eventTypeName,
			invoke:    sub.invoke,
		}

		select {
		case bus.workQueue <- item:
		case <-bus.ctx.Done():
			return
		default:
			bus.metrics.IncrementDropped(eventTypeName)
			slog.DebugContext(bus.ctx, "dropped event due to full work queue",
				"event_type", eventTypeName,
			)
		}
	}

	bus.metrics.IncrementPublished(eventTypeName)
}

// Close shuts down the bus: cancels its context, stops the workers and waits
// for in-flight deliveries to finish. Safe to call multiple times.
func (bus *Bus) Close() {
	if !bus.closed.CompareAndSwap(false, true) {
		return
	}

	bus.cancel()
	close(bus.workQueue)
	bus.wg.Wait()

	bus.mu.Lock()
	defer bus.mu.Unlock()
	for eventType := range bus.subscribers {
		delete(bus.subscribers, eventType)
	}
}

func (bus *Bus) IsClosed() bool {
	return bus.closed.Load()
}

// SubscriberCount returns the number of subscribers for a given event type.
// Primarily useful for testing.
func SubscriberCount[T Event[T]](bus *Bus) int {
	var zero T
	eventType := reflect.TypeOf(zero)

	bus.mu.RLock()
	defer bus.mu.RUnlock()

	return len(bus.subscribers[eventType])
}
