package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"github.com/AVVKavvk/sahay-call-agent/models"
)

// Handler receives each decoded record.
type Handler func(ctx context.Context, rec models.LogRecord) error

// Consume reads the durable queue bound to exchange and feeds every record
// to handle until ctx is done or the broker closes the delivery channel.
// Records are acked after handle returns; a failed record is rejected
// without requeue, so handle is expected to count its own failures.
func Consume(ctx context.Context, conn *amqp.Connection, exchange string, handle Handler) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	queue, err := declareTopology(ch, exchange)
	if err != nil {
		return err
	}

	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	log.WithField("queue", queue).Info("waiting for call log records")
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			if err := handleDelivery(ctx, d.Body, handle); err != nil {
				log.WithError(err).WithField("message_id", d.MessageId).Warn("call log record not forwarded")
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

func handleDelivery(ctx context.Context, body []byte, handle Handler) error {
	var rec models.LogRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return handle(ctx, rec)
}
