package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	domain "github.com/BruksfildServices01/branch-queue/internal/domain/appointment"
)

const deliveryTimeout = 10 * time.Second

// Sink receives every emitted event. Errors are logged by the dispatcher.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, name domain.EventName, event domain.Event) error
}

type envelope struct {
	name  domain.EventName
	event domain.Event
}

// Dispatcher is the asynchronous Notifier: Emit enqueues and returns, one
// worker fans the event out to the sinks. Events are dropped when the queue
// is full.
type Dispatcher struct {
	sinks []Sink
	queue chan envelope

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

var _ domain.Notifier = (*Dispatcher)(nil)

func NewDispatcher(size int, sinks ...Sink) *Dispatcher {
	if size <= 0 {
		size = 100
	}
	d := &Dispatcher{
		sinks: sinks,
		queue: make(chan envelope, size),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for env := range d.queue {
		d.deliver(env)
	}
}

func (d *Dispatcher) deliver(env envelope) {
	for _, s := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		err := s.Deliver(ctx, env.name, env.event)
		cancel()
		if err != nil {
			log.Error().
				Err(err).
				Str("sink", s.Name()).
				Str("event", string(env.name)).
				Uint("appointment_id", env.event.Appointment.ID).
				Msg("notification delivery failed")
		}
	}
}

func (d *Dispatcher) Emit(name domain.EventName, event domain.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	select {
	case d.queue <- envelope{name: name, event: event}:
	default:
		log.Warn().Str("event", string(name)).Msg("notification queue full, dropping event")
	}
}

// Close stops accepting events and waits until the queued ones are delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}

// Fanout emits every event to each notifier in turn. Giving slow sinks their
// own Dispatcher keeps them from holding up the fast ones.
type Fanout []domain.Notifier

var _ domain.Notifier = Fanout(nil)

func (f Fanout) Emit(name domain.EventName, event domain.Event) {
	for _, n := range f {
		n.Emit(name, event)
	}
}
