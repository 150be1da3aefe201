package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/karmic/marketplace/internal/api/metrics"
	"github.com/karmic/marketplace/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// EventProcessor consumes lifecycle audit events.
type EventProcessor interface {
	Process(ctx context.Context, event domain.TaskEvent) error
}

// Dispatcher routes lifecycle events to a fixed set of workers using
// consistent hashing on the task number, guaranteeing per-task event
// ordering in the audit trail.
type Dispatcher struct {
	workers   []chan domain.TaskEvent
	processor EventProcessor
	log       zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, processor EventProcessor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan domain.TaskEvent, numWorkers),
		processor: processor,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.TaskEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its task number.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event domain.TaskEvent) {
	i := d.shardIndex(event.TaskNumber)
	d.workers[i] <- event
	metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// shardIndex maps a task number deterministically to a worker index.
func (d *Dispatcher) shardIndex(taskNumber string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(taskNumber))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.TaskEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if err := d.processor.Process(ctx, event); err != nil {
				metrics.AuditWriteErrorsTotal.Inc()
				d.log.Error().Err(err).
					Str("task_number", event.TaskNumber).
					Str("event", event.Event).
					Int("worker_id", id).
					Msg("audit event processing failed")
			}
		}
	}
}
