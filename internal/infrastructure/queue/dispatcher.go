package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/thinkstack/marketplace/internal/api/metrics"
	"github.com/thinkstack/marketplace/internal/core/domain"
	"github.com/thinkstack/marketplace/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes moderation audit events to a fixed set of workers using
// hashing on the challenge id, so events for one challenge are recorded in
// the order they were enqueued.
type Dispatcher struct {
	workers []chan domain.ModerationEvent
	service ports.AuditService
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.ModerationEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ModerationEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their channel and stop
// when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue sends an event to the worker responsible for its challenge.
// The call blocks once that worker's buffer is full.
func (d *Dispatcher) Enqueue(event domain.ModerationEvent) {
	idx := d.shardIndex(event.ChallengeID)
	d.workers[idx] <- event
	metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

func (d *Dispatcher) shardIndex(challengeID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(challengeID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ModerationEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case event := <-ch:
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.record(ctx, id, event)
		}
	}
}

// drain records whatever is still buffered after shutdown was requested.
func (d *Dispatcher) drain(id int, ch <-chan domain.ModerationEvent) {
	ctx := context.Background()
	for {
		select {
		case event := <-ch:
			d.record(ctx, id, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) record(ctx context.Context, id int, event domain.ModerationEvent) {
	if err := d.service.Record(ctx, event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues("error").Inc()
		d.log.Error().Err(err).
			Str("challenge_id", event.ChallengeID).
			Str("action", string(event.Action)).
			Int("worker_id", id).
			Msg("audit event recording failed")
		return
	}
	metrics.AuditEventsTotal.WithLabelValues("ok").Inc()
}
