// Package rabbitmq carries call log records through a broker so the
// spreadsheet webhook can be fed by a separate consumer.
package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

const DefaultExchange = "call_log"

func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	log.Info("rabbitmq connected")
	return conn, nil
}

func exchangeName(exchange string) string {
	if exchange == "" {
		return DefaultExchange
	}
	return exchange
}

// QueueName is the durable queue bound to exchange that feeds the webhook.
func QueueName(exchange string) string {
	return exchangeName(exchange) + ".sheet"
}

// declareTopology declares the exchange and its durable queue and binds
// them. Both sides call it, so records published before the consumer
// starts wait in the queue instead of being unroutable.
func declareTopology(ch *amqp.Channel, exchange string) (string, error) {
	exchange = exchangeName(exchange)
	if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		return "", fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	q, err := ch.QueueDeclare(QueueName(exchange), true, false, false, false, nil)
	if err != nil {
		return "", fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "", exchange, false, nil); err != nil {
		return "", fmt.Errorf("bind queue %s: %w", q.Name, err)
	}
	return q.Name, nil
}
