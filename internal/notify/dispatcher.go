package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Message is one email queued for delivery.
type Message struct {
	To      string
	Subject string
	Body    string
}

const (
	queueSize   = 64
	sendTimeout = 15 * time.Second
)

// Dispatcher decouples row mutations from delivery: Enqueue never blocks and
// never reports an error, a single worker drains the queue, and sink failures
// are only logged. Close drains whatever is still queued.
type Dispatcher struct {
	sink Sink
	log  *slog.Logger

	ch   chan Message
	wg   sync.WaitGroup
	once sync.Once
}

func NewDispatcher(sink Sink, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		sink: sink,
		log:  log.With(slog.String("component", "notify.dispatcher")),
		ch:   make(chan Message, queueSize),
	}
}

func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for msg := range d.ch {
			d.deliver(msg)
		}
	}()
}

// Enqueue queues a message for delivery. When the queue is full the message
// is dropped with a log line; a slow mail relay must never stall a booking.
func (d *Dispatcher) Enqueue(msg Message) {
	select {
	case d.ch <- msg:
	default:
		d.log.Warn("notification queue full, dropping message",
			slog.String("to", msg.To),
			slog.String("subject", msg.Subject),
		)
	}
}

// Close stops accepting messages and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.ch)
	})
	d.wg.Wait()
}

func (d *Dispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := d.sink.Send(ctx, msg.To, msg.Subject, msg.Body); err != nil {
		d.log.Error("notification send failed",
			slog.Any("err", err),
			slog.String("to", msg.To),
			slog.String("subject", msg.Subject),
		)
		return
	}
	d.log.Debug("notification sent",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
}
