package locker

import (
	"context"
	"delivery-slot-service/internal/app/contracts"
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/exceptions"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockRedisRepository struct {
	mock.Mock
}

func (m *MockRedisRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockRedisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	return m.Called(ctx, key, value, exp).Error(0)
}

func (m *MockRedisRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockRedisRepository) Increment(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRedisRepository) Expire(ctx context.Context, key string, exp time.Duration) error {
	return m.Called(ctx, key, exp).Error(0)
}

func (m *MockRedisRepository) GetInt64(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRedisRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, exp)
	return args.Bool(0), args.Error(1)
}

func (m *MockRedisRepository) DeleteIfValue(ctx context.Context, key string, value interface{}) (bool, error) {
	args := m.Called(ctx, key, value)
	return args.Bool(0), args.Error(1)
}

func (m *MockRedisRepository) ExpireIfValue(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, exp)
	return args.Bool(0), args.Error(1)
}

func (m *MockRedisRepository) Publish(ctx context.Context, channel, message string) error {
	return m.Called(ctx, channel, message).Error(0)
}

func (m *MockRedisRepository) Subscribe(ctx context.Context, channel string) (contracts.RedisSubscription, error) {
	args := m.Called(ctx, channel)
	sub, _ := args.Get(0).(contracts.RedisSubscription)
	return sub, args.Error(1)
}

func TestLock_AcquiresAfterContention(t *testing.T) {
	repo := new(MockRedisRepository)
	repo.On("TrySetNX", mock.Anything, "k", mock.AnythingOfType("string"), time.Second).Return(false, nil).Twice()
	repo.On("TrySetNX", mock.Anything, "k", mock.AnythingOfType("string"), time.Second).Return(true, nil).Once()

	svc := NewLockService(repo, zap.NewNop(), time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	value, err := svc.Lock(ctx, "k", time.Second)
	assert.NoError(t, err)
	assert.NotEmpty(t, value)
	repo.AssertNumberOfCalls(t, "TrySetNX", 3)
}

func TestLock_TimesOutWithRetryableError(t *testing.T) {
	repo := new(MockRedisRepository)
	repo.On("TrySetNX", mock.Anything, "k", mock.Anything, time.Second).Return(false, nil)

	svc := NewLockService(repo, zap.NewNop(), 5*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := svc.Lock(ctx, "k", time.Second)
	assert.Error(t, err)
	assert.True(t, exceptions.HasCode(err, constvars.ErrCodeDatastoreTimeout))
	assert.True(t, exceptions.IsRetryable(err))
}

func TestLock_PropagatesRedisError(t *testing.T) {
	repo := new(MockRedisRepository)
	repo.On("TrySetNX", mock.Anything, "k", mock.Anything, time.Second).Return(false, errors.New("connection refused"))

	svc := NewLockService(repo, zap.NewNop(), time.Millisecond)
	_, err := svc.Lock(context.Background(), "k", time.Second)
	assert.Error(t, err)
	assert.False(t, exceptions.HasCode(err, constvars.ErrCodeDatastoreTimeout))
}

func TestUnlock_NotOwnedIsNotAnError(t *testing.T) {
	repo := new(MockRedisRepository)
	repo.On("DeleteIfValue", mock.Anything, "k", "v").Return(false, nil)

	svc := NewLockService(repo, zap.NewNop(), 0)
	assert.NoError(t, svc.Unlock(context.Background(), "k", "v"))
}

func TestRefresh_NotOwned(t *testing.T) {
	repo := new(MockRedisRepository)
	repo.On("ExpireIfValue", mock.Anything, "k", "v", time.Second).Return(false, nil)

	svc := NewLockService(repo, zap.NewNop(), 0)
	assert.Error(t, svc.Refresh(context.Background(), "k", "v", time.Second))
}
