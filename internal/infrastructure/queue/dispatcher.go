package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
	"github.com/cargoconnect/marketplace-api/internal/core/ports"
	"github.com/cargoconnect/marketplace-api/internal/observability"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher fans domain events out to a fixed set of workers using
// consistent hashing on the recipient id, guaranteeing per-recipient
// notification ordering. Each worker persists the notification and forwards
// the event to the audit stream; both are best-effort and never propagate
// back into the operation that raised the event.
type Dispatcher struct {
	workers   []chan domain.Event
	service   ports.NotificationService
	publisher ports.EventPublisher
	log       zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. publisher may be nil when no
// audit stream is configured.
func NewDispatcher(numWorkers int, service ports.NotificationService, publisher ports.EventPublisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.Event, numWorkers),
		service:   service,
		publisher: publisher,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Event, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Notify sends an event to the worker responsible for its recipient. When a
// worker's channel is full the event is dropped with a log line: delivery is
// best-effort and the triggering operation must never block on it.
func (d *Dispatcher) Notify(event domain.Event) {
	idx := d.shardIndex(event.RecipientID)
	select {
	case d.workers[idx] <- event:
		observability.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().
			Str("type", string(event.Type)).
			Str("recipient_id", event.RecipientID).
			Int("worker_id", idx).
			Msg("dispatcher queue full, event dropped")
	}
}

// shardIndex maps a recipient id deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipientID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipientID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Event) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			observability.NotificationQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
			d.handle(ctx, id, event)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, workerID int, event domain.Event) {
	start := time.Now()
	result := "ok"

	if err := d.service.Dispatch(ctx, event); err != nil {
		result = "error"
		d.log.Error().Err(err).
			Str("type", string(event.Type)).
			Str("recipient_id", event.RecipientID).
			Int("worker_id", workerID).
			Msg("notification dispatch failed")
	}

	if d.publisher != nil {
		if err := d.publisher.Publish(ctx, event); err != nil {
			d.log.Warn().Err(err).
				Str("type", string(event.Type)).
				Msg("audit stream publish failed")
		}
	}

	observability.DispatchDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
