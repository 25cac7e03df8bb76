package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sitterhub/marketplace/internal/core/domain"
	"github.com/sitterhub/marketplace/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

var (
	ErrQueueFull   = errors.New("audit queue full")
	ErrQueueClosed = errors.New("audit queue closed")
)

// AuditDispatcher writes booking events to a ports.BookingAuditor off the
// request path. Events are sharded by booking id so one booking's events are
// written in the order they were recorded.
type AuditDispatcher struct {
	workers []chan domain.BookingEvent
	sink    ports.BookingAuditor
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewAuditDispatcher creates a dispatcher with numWorkers shards.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, sink ports.BookingAuditor, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.BookingEvent, numWorkers),
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.BookingEvent, channelBuffer)
	}
	return d
}

// Start launches the workers. They run until Close drains the queues.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(context.WithoutCancel(ctx), i, ch)
	}
}

// Record enqueues the event without blocking. It fails with ErrQueueFull when
// the shard's buffer is full.
func (d *AuditDispatcher) Record(_ context.Context, event domain.BookingEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrQueueClosed
	}

	select {
	case d.workers[d.shardIndex(event.BookingID)] <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// History reads straight from the sink. Events still queued are not included.
func (d *AuditDispatcher) History(ctx context.Context, bookingID string) ([]domain.BookingEvent, error) {
	return d.sink.History(ctx, bookingID)
}

// Close stops accepting events and waits for queued ones to be written, or
// for ctx to end.
func (d *AuditDispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *AuditDispatcher) shardIndex(bookingID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(bookingID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.BookingEvent) {
	defer d.wg.Done()
	for event := range ch {
		if err := d.sink.Record(ctx, event); err != nil {
			d.log.Error().Err(err).
				Str("booking_id", event.BookingID).
				Str("to_status", string(event.ToStatus)).
				Int("worker_id", id).
				Msg("audit write failed")
		}
	}
}
