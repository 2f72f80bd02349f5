package mailer

import (
	"context"
	"delivery-slot-service/internal/app/contracts"
	"delivery-slot-service/internal/app/models"
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/dto/requests"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const sendTimeout = 30 * time.Second

type deliveryOutcome int

const (
	outcomeSent deliveryOutcome = iota
	outcomeSkipped
	outcomeRequeued
	outcomeDeadLettered
	outcomeRetryLater
)

// NotificationConsumer drains the notification queue and sends the emails.
// A failed send goes back to the tail with FailedCount+1 until maxFaults, after
// which the message is parked on the dead-letter queue.
type NotificationConsumer struct {
	queue     *NotificationQueue
	publisher publisher
	sender    contracts.EmailSender
	queueName string
	dlqName   string
	maxFaults int
	log       *zap.Logger

	ch   *amqp.Channel
	done chan struct{}
}

func NewNotificationConsumer(queue *NotificationQueue, sender contracts.EmailSender, maxFaults int, log *zap.Logger) *NotificationConsumer {
	c := newNotificationConsumer(queue, queue.QueueName(), queue.DeadLetterQueueName(), sender, maxFaults, log)
	c.queue = queue
	return c
}

func newNotificationConsumer(p publisher, queueName, dlqName string, sender contracts.EmailSender, maxFaults int, log *zap.Logger) *NotificationConsumer {
	if maxFaults <= 0 {
		maxFaults = 1
	}
	return &NotificationConsumer{
		publisher: p,
		sender:    sender,
		queueName: queueName,
		dlqName:   dlqName,
		maxFaults: maxFaults,
		log:       log,
		done:      make(chan struct{}),
	}
}

func (c *NotificationConsumer) Start() error {
	deliveries, ch, err := c.queue.Consume("booking-notification-consumer")
	if err != nil {
		close(c.done)
		return err
	}
	c.ch = ch

	go func() {
		defer close(c.done)
		for d := range deliveries {
			c.process(d)
		}
	}()

	c.log.Info("NotificationConsumer started", zap.String(constvars.LoggingQueueNameKey, c.queueName))
	return nil
}

func (c *NotificationConsumer) Stop() {
	if c.ch == nil {
		return
	}
	_ = c.ch.Close()
	<-c.done
	c.log.Info("NotificationConsumer stopped", zap.String(constvars.LoggingQueueNameKey, c.queueName))
}

func (c *NotificationConsumer) process(d amqp.Delivery) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if c.handle(ctx, d.Body) == outcomeRetryLater {
		_ = d.Nack(false, true)
		return
	}
	_ = d.Ack(false)
}

func (c *NotificationConsumer) handle(ctx context.Context, body []byte) deliveryOutcome {
	var message NotificationQueueMessage
	if err := json.Unmarshal(body, &message); err != nil {
		c.log.Error("NotificationConsumer received undecodable message", zap.Error(err))
		if pubErr := c.publisher.Publish(ctx, c.dlqName, body); pubErr != nil {
			return outcomeRetryLater
		}
		return outcomeDeadLettered
	}

	intent := message.Intent
	payload, ok := BuildEmailPayload(intent)
	if !ok {
		c.log.Warn("NotificationConsumer skipping intent without recipient email",
			zap.String(constvars.LoggingBookingIDKey, intent.RequestID),
			zap.String(constvars.LoggingNotificationKindKey, string(intent.Kind)),
		)
		return outcomeSkipped
	}

	err := c.sender.SendEmail(ctx, payload)
	if err == nil {
		c.log.Info("NotificationConsumer email sent",
			zap.String(constvars.LoggingBookingIDKey, intent.RequestID),
			zap.String(constvars.LoggingNotificationKindKey, string(intent.Kind)),
		)
		return outcomeSent
	}

	message.FailedCount++
	c.log.Warn("NotificationConsumer email send failed",
		zap.String(constvars.LoggingBookingIDKey, intent.RequestID),
		zap.Int("failed_count", message.FailedCount),
		zap.Error(err),
	)

	target, outcome := c.queueName, outcomeRequeued
	if message.FailedCount >= c.maxFaults {
		target, outcome = c.dlqName, outcomeDeadLettered
	}

	retryBody, marshalErr := json.Marshal(message)
	if marshalErr != nil {
		return outcomeRetryLater
	}
	if pubErr := c.publisher.Publish(ctx, target, retryBody); pubErr != nil {
		c.log.Error("NotificationConsumer could not republish message",
			zap.String(constvars.LoggingQueueNameKey, target),
			zap.Error(pubErr),
		)
		return outcomeRetryLater
	}
	return outcome
}

// BuildEmailPayload renders the email for an intent. It reports false when
// the requester has no email on record.
func BuildEmailPayload(intent models.NotificationIntent) (*requests.EmailPayload, bool) {
	if strings.TrimSpace(intent.RequesterEmail) == "" {
		return nil, false
	}

	payload := &requests.EmailPayload{To: intent.RequesterEmail}
	switch intent.Kind {
	case models.NotificationKindApproved:
		payload.Subject = constvars.EmailSubjectBookingApproved
		payload.Body = fmt.Sprintf(constvars.EmailBodyBookingApproved, intent.SupplierName, intent.Date, intent.Slot, intent.RequestID)
	case models.NotificationKindRejected:
		reason := ""
		if intent.Reason != nil {
			reason = *intent.Reason
		}
		payload.Subject = constvars.EmailSubjectBookingRejected
		payload.Body = fmt.Sprintf(constvars.EmailBodyBookingRejected, intent.SupplierName, intent.Date, intent.Slot, reason, intent.RequestID)
	case models.NotificationKindRescheduled:
		payload.Subject = constvars.EmailSubjectBookingRescheduled
		payload.Body = fmt.Sprintf(constvars.EmailBodyBookingRescheduled, intent.SupplierName, intent.Date, intent.Slot, intent.RequestID)
	default:
		return nil, false
	}
	return payload, true
}
