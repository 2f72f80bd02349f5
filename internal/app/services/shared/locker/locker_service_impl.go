package locker

import (
	"context"
	"delivery-slot-service/internal/app/contracts"
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/exceptions"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultRetryInterval = 25 * time.Millisecond

type lockService struct {
	redisRepo     contracts.RedisRepository
	retryInterval time.Duration
	Log           *zap.Logger
}

func NewLockService(repo contracts.RedisRepository, logger *zap.Logger, retryInterval time.Duration) contracts.LockerService {
	if retryInterval <= 0 {
		retryInterval = defaultRetryInterval
	}
	return &lockService{
		redisRepo:     repo,
		retryInterval: retryInterval,
		Log:           logger,
	}
}

func (s *lockService) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Debug("lockService.TryLock called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRedisKey, key),
		zap.Duration(constvars.LoggingLockExpirationTimeKey, expiration),
	)

	lockValue := uuid.NewString()
	acquired, err := s.redisRepo.TrySetNX(ctx, key, lockValue, expiration)
	if err != nil {
		s.Log.Error("lockService.TryLock error calling redisRepo.TrySetNX",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return false, "", err
	}

	if !acquired {
		return false, "", nil
	}

	s.Log.Debug("lockService.TryLock acquired lock",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRedisKey, key),
		zap.String(constvars.LoggingLockValueKey, lockValue),
	)
	return true, lockValue, nil
}

// Lock polls TryLock at the configured retry interval. The caller bounds the
// wait through ctx; running out of it yields a retryable lock wait timeout.
func (s *lockService) Lock(ctx context.Context, key string, expiration time.Duration) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	limiter := rate.NewLimiter(rate.Every(s.retryInterval), 1)

	attempts := 0
	for {
		if err := limiter.Wait(ctx); err != nil {
			s.Log.Warn("lockService.Lock gave up waiting",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRedisKey, key),
				zap.Int("attempts", attempts),
			)
			return "", exceptions.ErrLockWaitTimeout(err, key)
		}
		attempts++

		acquired, lockValue, err := s.TryLock(ctx, key, expiration)
		if err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return "", exceptions.ErrLockWaitTimeout(err, key)
			}
			return "", err
		}
		if acquired {
			return lockValue, nil
		}
	}
}

func (s *lockService) Unlock(ctx context.Context, key, lockValue string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	deleted, err := s.redisRepo.DeleteIfValue(ctx, key, lockValue)
	if err != nil {
		s.Log.Error("lockService.Unlock error calling redisRepo.DeleteIfValue",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, key),
			zap.Error(err),
		)
		return err
	}

	if !deleted {
		s.Log.Warn("lockService.Unlock lock already expired or owned by another holder",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRedisKey, key),
			zap.String(constvars.LoggingLockValueKey, lockValue),
		)
		return nil
	}

	s.Log.Debug("lockService.Unlock succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRedisKey, key),
	)
	return nil
}

func (s *lockService) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	updated, err := s.redisRepo.ExpireIfValue(ctx, key, lockValue, expiration)
	if err != nil {
		return err
	}
	if !updated {
		return exceptions.ErrRedisUnlock(fmt.Errorf("lock %s not owned by this client", key))
	}
	return nil
}
