package sheetlog

import (
	"context"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/AVVKavvk/sahay-call-agent/models"
)

const publishTimeout = 10 * time.Second

type Stats struct {
	Enqueued int64 `json:"enqueued"`
	// Published counts records handed to a broker that have not yet been
	// confirmed by the consumer side. Only relay dispatchers use it.
	Published int64 `json:"published"`
	Delivered int64 `json:"delivered"`
	Failed    int64 `json:"failed"`
	Dropped   int64 `json:"dropped"`
}

// Dispatcher queues records in memory and hands them to a Sink from a
// single worker. Enqueue never blocks: a full queue drops the record.
type Dispatcher struct {
	sink  Sink
	queue chan models.LogRecord
	relay bool

	enqueued  atomic.Int64
	published atomic.Int64
	delivered atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

func NewDispatcher(sink Sink, size int) *Dispatcher {
	if size <= 0 {
		size = 1
	}
	return &Dispatcher{
		sink:  sink,
		queue: make(chan models.LogRecord, size),
	}
}

func (d *Dispatcher) Enqueue(rec models.LogRecord) {
	select {
	case d.queue <- rec:
		d.enqueued.Add(1)
	default:
		d.dropped.Add(1)
		log.WithField("call_sid", rec.CallID).Warn("log queue full, record dropped")
	}
}

// NewRelayDispatcher is NewDispatcher for a sink that hands records to a
// broker. A successful publish only counts as Published; Delivered and
// Failed come from the handler returned by Forward.
func NewRelayDispatcher(broker Sink, size int) *Dispatcher {
	d := NewDispatcher(broker, size)
	d.relay = true
	return d
}

// Forward wraps the final sink on the consuming side of a relay so its
// outcome shows up in Stats.
func (d *Dispatcher) Forward(sink Sink) func(ctx context.Context, rec models.LogRecord) error {
	return func(ctx context.Context, rec models.LogRecord) error {
		if err := sink.Publish(ctx, rec); err != nil {
			d.failed.Add(1)
			return err
		}
		d.delivered.Add(1)
		return nil
	}
}

// Run delivers queued records until ctx is done, then flushes what is
// already queued with a fresh deadline per record.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case rec := <-d.queue:
			d.deliver(ctx, rec)
		case <-ctx.Done():
			d.drain()
			return
		}
	}
}

func (d *Dispatcher) drain() {
	for {
		select {
		case rec := <-d.queue:
			d.deliver(context.Background(), rec)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, rec models.LogRecord) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := d.sink.Publish(ctx, rec); err != nil {
		d.failed.Add(1)
		log.WithError(err).WithField("call_sid", rec.CallID).Warn("call log delivery failed")
		return
	}
	if d.relay {
		d.published.Add(1)
		return
	}
	d.delivered.Add(1)
}

func (d *Dispatcher) Stats() Stats {
	return Stats{
		Enqueued:  d.enqueued.Load(),
		Published: d.published.Load(),
		Delivered: d.delivered.Load(),
		Failed:    d.failed.Load(),
		Dropped:   d.dropped.Load(),
	}
}
