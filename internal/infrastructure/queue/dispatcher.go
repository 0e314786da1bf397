package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vamilabs/labrecords-api/internal/api/metrics"
	"github.com/vamilabs/labrecords-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	insertTimeout  = 5 * time.Second
)

// AuditDispatcher fans audit events out to a fixed set of workers, sharded by
// actor so one actor's trail stays ordered. Persistence is best-effort: a
// failed insert is logged and dropped, never surfaced to the request. Stop
// drains every buffered event before returning.
type AuditDispatcher struct {
	workers []chan ports.AuditEvent
	repo    ports.AuditRepository
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan ports.AuditEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers run until Stop closes their
// channels.
func (d *AuditDispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Stop closes the worker channels and blocks until every buffered event has
// been persisted. Safe to call more than once; Record becomes a logged no-op
// afterwards.
func (d *AuditDispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// Record enqueues an event for the worker responsible for its actor. When the
// worker channel is full the event is dropped with a warning rather than
// blocking the request path.
func (d *AuditDispatcher) Record(event ports.AuditEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.log.Warn().Str("actor", event.Actor).Str("action", event.Action).Msg("dispatcher stopped, event dropped")
		return
	}

	idx := d.shardIndex(event.Actor)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().Str("actor", event.Actor).Str("action", event.Action).Msg("audit queue full, event dropped")
	}
}

// shardIndex maps an actor deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(actor string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(actor))
	return int(h.Sum32()) % len(d.workers)
}

func (d *AuditDispatcher) runWorker(id int, ch <-chan ports.AuditEvent) {
	defer d.wg.Done()

	worker := strconv.Itoa(id)
	for event := range ch {
		insertCtx, cancel := context.WithTimeout(context.Background(), insertTimeout)
		if err := d.repo.Insert(insertCtx, &event); err != nil {
			d.log.Warn().Err(err).
				Str("actor", event.Actor).
				Str("action", event.Action).
				Msg("failed to persist audit event")
		}
		cancel()
		metrics.AuditQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
	}
}
