package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes audit events to a fixed set of workers using consistent
// hashing on the actor id, so the events of one actor are written in the
// order they happened.
type Dispatcher struct {
	workers []chan domain.AuditEvent
	sink    ports.AuditSink
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

var _ ports.AuditRecorder = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink ports.AuditSink, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. ctx is passed to the sink on every
// write.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Record hands the event to the worker responsible for its actor. It never
// blocks: when that worker's buffer is full, or after Close, the event is
// dropped and logged.
func (d *Dispatcher) Record(event domain.AuditEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn().Str("action", event.Action).Msg("audit dispatcher closed, event dropped")
		return
	}
	select {
	case d.workers[d.shardIndex(event.ActorID)] <- event:
	default:
		d.log.Warn().
			Str("action", event.Action).
			Int64("actor_id", event.ActorID).
			Msg("audit queue full, event dropped")
	}
}

// Close stops accepting events and waits for the workers to drain their
// buffers.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps an actor id deterministically to a worker index.
func (d *Dispatcher) shardIndex(actorID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(actorID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	for event := range ch {
		if err := d.sink.Write(ctx, event); err != nil {
			d.log.Error().Err(err).
				Str("event_id", event.ID).
				Str("action", event.Action).
				Int("worker_id", id).
				Msg("audit write failed")
		}
	}
}
