package mailer

import (
	"context"
	"delivery-slot-service/internal/app/contracts"
	"delivery-slot-service/internal/app/models"
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/exceptions"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type notificationService struct {
	publisher publisher
	queue     string
	timeout   time.Duration
	log       *zap.Logger
}

func NewNotificationService(queue *NotificationQueue, timeout time.Duration, log *zap.Logger) contracts.NotificationService {
	return newNotificationService(queue, queue.QueueName(), timeout, log)
}

func newNotificationService(p publisher, queue string, timeout time.Duration, log *zap.Logger) *notificationService {
	return &notificationService{
		publisher: p,
		queue:     queue,
		timeout:   timeout,
		log:       log,
	}
}

// Notify hands the intent to the broker. A nil return means the broker
// confirmed the message, not that the email went out.
func (s *notificationService) Notify(ctx context.Context, intent models.NotificationIntent) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	body, err := json.Marshal(NotificationQueueMessage{
		ID:     uuid.NewString(),
		Intent: intent,
	})
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.publisher.Publish(ctx, s.queue, body); err != nil {
		s.log.Error("notificationService.Notify error publishing intent",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBookingIDKey, intent.RequestID),
			zap.String(constvars.LoggingNotificationKindKey, string(intent.Kind)),
			zap.String(constvars.LoggingQueueNameKey, s.queue),
			zap.Error(err),
		)
		return err
	}

	s.log.Info("notificationService.Notify intent queued",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingIDKey, intent.RequestID),
		zap.String(constvars.LoggingNotificationKindKey, string(intent.Kind)),
	)
	return nil
}

type logOnlyNotificationService struct {
	log *zap.Logger
}

// NewLogOnlyNotificationService is used when no broker is configured. Intents
// are logged and reported as delivered.
func NewLogOnlyNotificationService(log *zap.Logger) contracts.NotificationService {
	return &logOnlyNotificationService{log: log}
}

func (s *logOnlyNotificationService) Notify(ctx context.Context, intent models.NotificationIntent) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("notification intent (broker disabled)",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingIDKey, intent.RequestID),
		zap.String(constvars.LoggingNotificationKindKey, string(intent.Kind)),
		zap.String(constvars.LoggingBookingDateKey, intent.Date),
		zap.String(constvars.LoggingBookingSlotKey, intent.Slot),
	)
	return nil
}
