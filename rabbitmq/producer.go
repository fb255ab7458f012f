package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AVVKavvk/sahay-call-agent/models"
)

// Producer publishes log records to a direct exchange.
type Producer struct {
	mu       sync.Mutex
	ch       *amqp.Channel
	exchange string
}

func NewProducer(conn *amqp.Connection, exchange string) (*Producer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if _, err := declareTopology(ch, exchange); err != nil {
		ch.Close()
		return nil, err
	}
	return &Producer{ch: ch, exchange: exchangeName(exchange)}, nil
}

func (p *Producer) Publish(ctx context.Context, rec models.LogRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode log record: %w", err)
	}

	// amqp channels are not safe for concurrent publishes
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, p.exchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    rec.ID,
		Body:         body,
	})
}

func (p *Producer) Close() error {
	return p.ch.Close()
}
