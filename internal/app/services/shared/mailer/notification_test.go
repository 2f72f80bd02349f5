package mailer

import (
	"context"
	"delivery-slot-service/internal/app/models"
	"delivery-slot-service/internal/pkg/dto/requests"
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, queue string, body []byte) error {
	return m.Called(ctx, queue, body).Error(0)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendEmail(ctx context.Context, request *requests.EmailPayload) error {
	return m.Called(ctx, request).Error(0)
}

func sampleIntent() models.NotificationIntent {
	reason := "dock closed"
	return models.NotificationIntent{
		RequestID:      "req-1",
		Kind:           models.NotificationKindRejected,
		Reason:         &reason,
		RequesterID:    "user-1",
		RequesterEmail: "supplier@acme.com",
		SupplierName:   "ACME",
		Date:           "2026-10-20",
		Slot:           "09:30",
	}
}

func TestNotify_PublishesIntent(t *testing.T) {
	p := new(mockPublisher)
	p.On("Publish", mock.Anything, "booking_notifications", mock.MatchedBy(func(body []byte) bool {
		var msg NotificationQueueMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return false
		}
		return msg.Intent.RequestID == "req-1" && msg.ID != "" && msg.FailedCount == 0
	})).Return(nil)

	svc := newNotificationService(p, "booking_notifications", time.Second, zap.NewNop())
	assert.NoError(t, svc.Notify(context.Background(), sampleIntent()))
	p.AssertExpectations(t)
}

func TestNotify_ReturnsBrokerError(t *testing.T) {
	p := new(mockPublisher)
	p.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	svc := newNotificationService(p, "booking_notifications", time.Second, zap.NewNop())
	assert.Error(t, svc.Notify(context.Background(), sampleIntent()))
}

func TestNotify_AppliesTimeout(t *testing.T) {
	p := new(mockPublisher)
	p.On("Publish", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), mock.Anything, mock.Anything).Return(nil)

	svc := newNotificationService(p, "q", 50*time.Millisecond, zap.NewNop())
	assert.NoError(t, svc.Notify(context.Background(), sampleIntent()))
	p.AssertExpectations(t)
}

func TestBuildEmailPayload(t *testing.T) {
	payload, ok := BuildEmailPayload(sampleIntent())
	require.True(t, ok)
	assert.Equal(t, "supplier@acme.com", payload.To)
	assert.Contains(t, payload.Body, "dock closed")
	assert.Contains(t, payload.Body, "2026-10-20")

	intent := sampleIntent()
	intent.RequesterEmail = ""
	_, ok = BuildEmailPayload(intent)
	assert.False(t, ok)
}

func encode(t *testing.T, msg NotificationQueueMessage) []byte {
	t.Helper()
	body, err := json.Marshal(msg)
	require.NoError(t, err)
	return body
}

func TestConsumerHandle_Sends(t *testing.T) {
	p := new(mockPublisher)
	s := new(mockSender)
	s.On("SendEmail", mock.Anything, mock.Anything).Return(nil)

	c := newNotificationConsumer(p, "q", "q_dlq", s, 3, zap.NewNop())
	outcome := c.handle(context.Background(), encode(t, NotificationQueueMessage{ID: "m1", Intent: sampleIntent()}))

	assert.Equal(t, outcomeSent, outcome)
	p.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestConsumerHandle_RequeuesThenDeadLetters(t *testing.T) {
	p := new(mockPublisher)
	p.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s := new(mockSender)
	s.On("SendEmail", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	c := newNotificationConsumer(p, "q", "q_dlq", s, 2, zap.NewNop())

	outcome := c.handle(context.Background(), encode(t, NotificationQueueMessage{ID: "m1", Intent: sampleIntent()}))
	assert.Equal(t, outcomeRequeued, outcome)
	p.AssertCalled(t, "Publish", mock.Anything, "q", mock.Anything)

	outcome = c.handle(context.Background(), encode(t, NotificationQueueMessage{ID: "m1", Intent: sampleIntent(), FailedCount: 1}))
	assert.Equal(t, outcomeDeadLettered, outcome)
	p.AssertCalled(t, "Publish", mock.Anything, "q_dlq", mock.Anything)
}

func TestConsumerHandle_PoisonMessageGoesToDLQ(t *testing.T) {
	p := new(mockPublisher)
	p.On("Publish", mock.Anything, "q_dlq", []byte("not json")).Return(nil)

	c := newNotificationConsumer(p, "q", "q_dlq", new(mockSender), 3, zap.NewNop())
	assert.Equal(t, outcomeDeadLettered, c.handle(context.Background(), []byte("not json")))
}

func TestConsumerHandle_SkipsWithoutRecipient(t *testing.T) {
	intent := sampleIntent()
	intent.RequesterEmail = ""
	s := new(mockSender)

	c := newNotificationConsumer(new(mockPublisher), "q", "q_dlq", s, 3, zap.NewNop())
	assert.Equal(t, outcomeSkipped, c.handle(context.Background(), encode(t, NotificationQueueMessage{ID: "m1", Intent: intent})))
	s.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
}

func TestConsumerHandle_RepublishFailureRetriesLater(t *testing.T) {
	p := new(mockPublisher)
	p.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))
	s := new(mockSender)
	s.On("SendEmail", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	c := newNotificationConsumer(p, "q", "q_dlq", s, 3, zap.NewNop())
	assert.Equal(t, outcomeRetryLater, c.handle(context.Background(), encode(t, NotificationQueueMessage{ID: "m1", Intent: sampleIntent()})))
}
