package ratelimiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"delivery-slot-service/internal/app/contracts"
)

type mockRedis struct {
	mock.Mock
	contracts.RedisRepository
}

func (m *mockRedis) Increment(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRedis) Expire(ctx context.Context, key string, exp time.Duration) error {
	return m.Called(ctx, key, exp).Error(0)
}

func TestApplyResourceLimiter_FirstHitSetsTTL(t *testing.T) {
	now := time.Unix(1_700_000_010, 0).UTC()
	key := "SSE_CONNECT:user-1:28333333"

	r := new(mockRedis)
	r.On("Increment", mock.Anything, key).Return(int64(1), nil)
	r.On("Expire", mock.Anything, key, 61*time.Second).Return(nil)

	l := NewResourceLimiter(r, zap.NewNop())
	out, err := l.ApplyResourceLimiter(context.Background(), &ApplyResourceLimiterInput{
		ResourceName:      "User-1",
		LimiterGroupName:  "sse_connect",
		WindowDurationSec: 60,
		MaxQuota:          2,
		NowUTC:            now,
	})
	assert.NoError(t, err)
	assert.True(t, out.Allowed)
	r.AssertExpectations(t)
}

func TestApplyResourceLimiter_OverQuota(t *testing.T) {
	now := time.Unix(1_700_000_010, 0).UTC()

	r := new(mockRedis)
	r.On("Increment", mock.Anything, mock.Anything).Return(int64(3), nil)

	l := NewResourceLimiter(r, zap.NewNop())
	out, err := l.ApplyResourceLimiter(context.Background(), &ApplyResourceLimiterInput{
		ResourceName:      "user-1",
		LimiterGroupName:  "SSE_CONNECT",
		WindowDurationSec: 60,
		MaxQuota:          2,
		NowUTC:            now,
	})
	assert.NoError(t, err)
	assert.False(t, out.Allowed)
	// window 28333333 ends at 1_700_000_040
	assert.Equal(t, 31, out.RetryAfterSecs)
	r.AssertNotCalled(t, "Expire", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyResourceLimiter_NoQuotaAlwaysAllows(t *testing.T) {
	l := NewResourceLimiter(new(mockRedis), zap.NewNop())
	out, err := l.ApplyResourceLimiter(context.Background(), &ApplyResourceLimiterInput{
		ResourceName:     "user-1",
		LimiterGroupName: "SSE_CONNECT",
	})
	assert.NoError(t, err)
	assert.True(t, out.Allowed)
}

func TestApplyResourceLimiter_RedisError(t *testing.T) {
	r := new(mockRedis)
	r.On("Increment", mock.Anything, mock.Anything).Return(int64(0), errors.New("down"))

	l := NewResourceLimiter(r, zap.NewNop())
	out, err := l.ApplyResourceLimiter(context.Background(), &ApplyResourceLimiterInput{
		ResourceName:     "user-1",
		LimiterGroupName: "SSE_CONNECT",
		MaxQuota:         1,
	})
	assert.Error(t, err)
	assert.False(t, out.Allowed)
}
