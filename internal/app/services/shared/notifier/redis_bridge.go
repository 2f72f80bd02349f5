package notifier

import (
	"context"
	"delivery-slot-service/internal/app/contracts"
	"delivery-slot-service/internal/pkg/constvars"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// RedisBridge shares invalidations between instances. Publish bumps the
// per-date version and broadcasts on one channel; every instance, this one
// included, hears the broadcast and hands it to its local Hub.
type RedisBridge struct {
	hub   *Hub
	redis contracts.RedisRepository
	log   *zap.Logger

	listening atomic.Bool
	sub       contracts.RedisSubscription
	done      chan struct{}
	stopOnce  sync.Once
}

func NewRedisBridge(hub *Hub, redis contracts.RedisRepository, log *zap.Logger) *RedisBridge {
	return &RedisBridge{
		hub:   hub,
		redis: redis,
		log:   log,
		done:  make(chan struct{}),
	}
}

// Start subscribes to the availability channel. Until it succeeds, Publish
// delivers to local subscribers directly.
func (b *RedisBridge) Start(ctx context.Context) error {
	sub, err := b.redis.Subscribe(ctx, constvars.RedisAvailabilityChannel)
	if err != nil {
		b.log.Error("RedisBridge.Start error subscribing",
			zap.String("channel", constvars.RedisAvailabilityChannel),
			zap.Error(err),
		)
		close(b.done)
		return err
	}
	b.sub = sub
	b.listening.Store(true)

	go b.listen()

	b.log.Info("RedisBridge.Start listening for availability changes",
		zap.String("channel", constvars.RedisAvailabilityChannel),
	)
	return nil
}

func (b *RedisBridge) listen() {
	defer close(b.done)
	for date := range b.sub.Messages() {
		_ = b.hub.Publish(context.Background(), date)
	}
	b.listening.Store(false)
}

func (b *RedisBridge) Stop() {
	b.stopOnce.Do(func() {
		if b.sub == nil {
			return
		}
		if err := b.sub.Close(); err != nil {
			b.log.Warn("RedisBridge.Stop error closing subscription", zap.Error(err))
		}
		<-b.done
	})
}

func (b *RedisBridge) Publish(ctx context.Context, date string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	if _, err := b.redis.Increment(ctx, versionKey(date)); err != nil {
		b.log.Warn("RedisBridge.Publish error bumping availability version",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBookingDateKey, date),
			zap.Error(err),
		)
	}

	if err := b.redis.Publish(ctx, constvars.RedisAvailabilityChannel, date); err != nil {
		_ = b.hub.Publish(ctx, date)
		return err
	}

	if !b.listening.Load() {
		return b.hub.Publish(ctx, date)
	}
	return nil
}

func (b *RedisBridge) Subscribe(date string, fn func(date string)) func() {
	return b.hub.Subscribe(date, fn)
}

func (b *RedisBridge) Version(ctx context.Context, date string) (int64, error) {
	return b.redis.GetInt64(ctx, versionKey(date))
}

func versionKey(date string) string {
	return fmt.Sprintf(constvars.RedisAvailabilityVersionKeyFormat, date)
}
