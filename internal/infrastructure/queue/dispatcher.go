package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/rashad-agri/marketplace/internal/core/domain"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Notice is an auth event addressed to one session.
type Notice struct {
	SessionID string
	Event     domain.AuthEvent
}

// Handler receives the notices of a session in the order they were enqueued.
type Handler interface {
	Deliver(ctx context.Context, sid string, ev domain.AuthEvent)
}

// DepthObserver is told the backlog of a worker after every change.
type DepthObserver interface {
	ObserveQueueDepth(worker string, depth int)
}

// Dispatcher routes auth notices to a fixed set of workers using consistent
// hashing on the session id, guaranteeing per-session ordering.
type Dispatcher struct {
	workers  []chan Notice
	handler  Handler
	observer DepthObserver
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. observer may be nil.
func NewDispatcher(numWorkers int, handler Handler, observer DepthObserver, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan Notice, numWorkers),
		handler:  handler,
		observer: observer,
		log:      log.With().Str("component", "dispatcher").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan Notice, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a notice to the worker responsible for its session. It blocks
// while that worker's buffer is full and gives up when ctx is done.
func (d *Dispatcher) Enqueue(ctx context.Context, n Notice) bool {
	i := d.shardIndex(n.SessionID)
	select {
	case d.workers[i] <- n:
		d.observe(i)
		return true
	case <-ctx.Done():
		d.log.Warn().Str("session_id", n.SessionID).Str("event", string(n.Event.Type)).Msg("auth notice dropped")
		return false
	}
}

// Route is Enqueue shaped as a listener callback.
func (d *Dispatcher) Route(ctx context.Context) func(sid string, ev domain.AuthEvent) {
	return func(sid string, ev domain.AuthEvent) {
		d.Enqueue(ctx, Notice{SessionID: sid, Event: ev})
	}
}

// shardIndex maps a session id deterministically to a worker index.
func (d *Dispatcher) shardIndex(sid string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sid))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) observe(i int) {
	if d.observer != nil {
		d.observer.ObserveQueueDepth(strconv.Itoa(i), len(d.workers[i]))
	}
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Notice) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			d.observe(id)
			d.log.Debug().
				Str("session_id", n.SessionID).
				Str("event", string(n.Event.Type)).
				Int("worker_id", id).
				Msg("delivering auth notice")
			d.handler.Deliver(ctx, n.SessionID, n.Event)
		}
	}
}
