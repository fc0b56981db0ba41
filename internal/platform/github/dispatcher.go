package github

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"go.trackdeck.dev/internal/platform/audit"
	"go.trackdeck.dev/internal/platform/common"
	"go.trackdeck.dev/internal/queue"
)

// redeliveryDelay is how long a failed run waits before the broker
// redelivers the message.
const redeliveryDelay = 30 * time.Second

// Dispatcher consumes queued webhook references and runs the processor
// for each. Processing happens off the ingest request path; the queue
// provides redelivery and per-delivery deduplication.
type Dispatcher struct {
	consumer  queue.Consumer
	processor *Processor

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher creates a new dispatcher
func NewDispatcher(consumer queue.Consumer, processor *Processor) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		consumer:  consumer,
		processor: processor,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start starts consuming in the background
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.consume()
	}()
	slog.Info("Webhook dispatcher started")
}

// Stop stops the dispatcher and waits for the consume loop to exit
func (d *Dispatcher) Stop() {
	d.cancel()
	d.wg.Wait()
	slog.Info("Webhook dispatcher stopped")
}

func (d *Dispatcher) consume() {
	err := d.consumer.Consume(d.ctx, func(msg queue.Message) error {
		return d.handle(msg)
	})
	if err != nil && err != context.Canceled {
		slog.Error("Webhook dispatcher consume loop exited", "error", err)
	}
}

// handle processes one queue message. Malformed payloads are acked so
// the broker does not redeliver them forever; processing failures are
// nacked with a delay and retried up to the consumer's MaxDeliver.
func (d *Dispatcher) handle(msg queue.Message) error {
	var qm QueueMessage
	if err := json.Unmarshal(msg.Data(), &qm); err != nil {
		slog.Error("Failed to decode webhook queue message",
			"error", err, "subject", msg.Subject())
		msg.Ack()
		return nil
	}

	execCtx := common.WithCorrelation(audit.SystemPrincipalID, qm.CorrelationID)

	if err := d.processor.Process(d.ctx, qm.WebhookID, execCtx); err != nil {
		slog.Error("Webhook processing failed",
			"error", err,
			"webhookId", qm.WebhookID,
			"deliveryId", qm.DeliveryID,
			"eventType", qm.EventType)
		msg.NakWithDelay(redeliveryDelay)
		return err
	}

	msg.Ack()
	return nil
}
