package bookings

import (
	"context"
	"delivery-slot-service/internal/pkg/constvars"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

const unlockTimeout = 2 * time.Second

func slotLockKey(date, slot string) string {
	return fmt.Sprintf(constvars.RedisSlotLockKeyFormat, date, slot)
}

// lockSlots takes the per-(date, slot) locks in ascending key order so two
// reschedules crossing the same pair of slots cannot deadlock. The whole
// acquisition shares one wait budget. The returned release unlocks in reverse
// order and is safe to call after ctx is done.
func (uc *bookingUsecase) lockSlots(ctx context.Context, keys ...string) (func(), error) {
	sorted := dedupeSorted(keys)

	waitCtx, cancel := context.WithTimeout(ctx, uc.lockWaitTimeout)
	defer cancel()

	type held struct{ key, token string }
	acquired := make([]held, 0, len(sorted))

	release := func() {
		unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), unlockTimeout)
		defer cancel()
		for i := len(acquired) - 1; i >= 0; i-- {
			if err := uc.locker.Unlock(unlockCtx, acquired[i].key, acquired[i].token); err != nil {
				uc.log.Warn("bookingUsecase.lockSlots unlock failed",
					zap.String(constvars.LoggingRedisKey, acquired[i].key),
					zap.Error(err),
				)
			}
		}
	}

	for _, key := range sorted {
		token, err := uc.locker.Lock(waitCtx, key, uc.lockTTL)
		if err != nil {
			release()
			return func() {}, err
		}
		acquired = append(acquired, held{key: key, token: token})
	}
	return release, nil
}

func dedupeSorted(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
