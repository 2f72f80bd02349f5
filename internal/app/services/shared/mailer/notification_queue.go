package mailer

import (
	"context"
	"delivery-slot-service/internal/app/models"
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/exceptions"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// NotificationQueueMessage is the body stored in RabbitMQ.
type NotificationQueueMessage struct {
	ID          string                    `json:"id"`
	Intent      models.NotificationIntent `json:"intent"`
	FailedCount int                       `json:"failed_count"`
}

// publisher is the subset of NotificationQueue the service and consumer need.
type publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

// NotificationQueue owns a confirm-mode channel with a durable work queue and
// its dead-letter twin.
type NotificationQueue struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	log      *zap.Logger
	queue    string
	dlq      string
	prefetch int
	confirms chan amqp.Confirmation
	mu       sync.Mutex
}

func NewNotificationQueue(conn *amqp.Connection, log *zap.Logger, queue string, prefetch int) (*NotificationQueue, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	dlq := queue + constvars.DeadLetterQueueSuffix
	for _, name := range []string{queue, dlq} {
		_, err = ch.QueueDeclare(
			name,  // name
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,   // args
		)
		if err != nil {
			return nil, exceptions.ErrRabbitMQDeclareQueue(err, name)
		}
	}

	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	return &NotificationQueue{
		conn:     conn,
		ch:       ch,
		log:      log,
		queue:    queue,
		dlq:      dlq,
		prefetch: prefetch,
		confirms: ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}, nil
}

func (q *NotificationQueue) QueueName() string { return q.queue }

func (q *NotificationQueue) DeadLetterQueueName() string { return q.dlq }

// Publish sends a persistent message and waits for the broker confirm.
func (q *NotificationQueue) Publish(ctx context.Context, queue string, body []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Headers: amqp.Table{
			"message_type": "JSON",
		},
	}

	if err := q.ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, queue)
	}

	select {
	case confirmed, ok := <-q.confirms:
		if !ok {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("channel closed before confirm"), queue)
		}
		if !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), queue)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), queue)
	}
	return nil
}

// Consume opens a separate channel so acks never interleave with the
// confirm-mode publishing channel.
func (q *NotificationQueue) Consume(consumerTag string) (<-chan amqp.Delivery, *amqp.Channel, error) {
	ch, err := q.conn.Channel()
	if err != nil {
		return nil, nil, exceptions.ErrRabbitMQConsume(err, q.queue)
	}
	if err := ch.Qos(q.prefetch, 0, false); err != nil {
		_ = ch.Close()
		return nil, nil, exceptions.ErrRabbitMQConsume(err, q.queue)
	}

	deliveries, err := ch.Consume(q.queue, consumerTag, false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, nil, exceptions.ErrRabbitMQConsume(err, q.queue)
	}
	return deliveries, ch, nil
}

func (q *NotificationQueue) Close() error {
	return q.ch.Close()
}
