package slots

import (
	"context"
	"delivery-slot-service/internal/app/config"
	"delivery-slot-service/internal/app/contracts"
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/utils"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Worker publishes today's date on every slot boundary so subscribers drop
// slots that just passed the cutoff. Only the instance holding the leader lock
// publishes.
type Worker struct {
	log      *zap.Logger
	cfg      *config.InternalConfig
	locker   contracts.LockerService
	notifier contracts.AvailabilityNotifier
	clock    Clock
	catalog  *Catalog
	cron     *cron.Cron
	runCtx   context.Context
	cancel   context.CancelFunc
}

func NewWorker(log *zap.Logger, cfg *config.InternalConfig, catalog *Catalog, lockerSvc contracts.LockerService, notifier contracts.AvailabilityNotifier, clock Clock) *Worker {
	return &Worker{log: log, cfg: cfg, catalog: catalog, locker: lockerSvc, notifier: notifier, clock: clock}
}

func (w *Worker) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)

	c := cron.New(cron.WithLocation(w.clock.Now().Location()))
	if spec := w.cfg.Worker.AvailabilityRefreshCronSpec; spec != "" {
		_, err := c.AddFunc(spec, func() { w.runOnce(w.runCtx) })
		if err == nil {
			c.Start()
			w.cron = c
			return
		}
		w.log.Warn("slots.worker: invalid cron spec, following the slot catalog",
			zap.String("spec", spec),
			zap.Error(err),
		)
		c = cron.New(cron.WithLocation(w.clock.Now().Location()))
	}
	for _, spec := range BoundarySpecs(w.catalog) {
		if _, err := c.AddFunc(spec, func() { w.runOnce(w.runCtx) }); err != nil {
			w.log.Error("slots.worker: failed to schedule slot boundary",
				zap.String("spec", spec),
				zap.Error(err),
			)
		}
	}
	c.Start()
	w.cron = c
}

// Stop waits for a running job to finish.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	ttl := time.Duration(w.cfg.Worker.LeaderLockTTLInSeconds) * time.Second
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}

	acquired, token, err := w.locker.TryLock(ctx, constvars.RedisAvailabilityWorkerLeaderKey, ttl)
	if err != nil {
		w.log.Warn("slots.worker: leader lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		w.log.Debug("slots.worker: leader lock held by another instance")
		return
	}
	defer func() {
		_ = w.locker.Unlock(context.Background(), constvars.RedisAvailabilityWorkerLeaderKey, token)
	}()

	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	defer cancelRefresh()
	go func() {
		tick := time.NewTicker(ttl / 2)
		defer tick.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-tick.C:
				if err := w.locker.Refresh(refreshCtx, constvars.RedisAvailabilityWorkerLeaderKey, token, ttl); err != nil {
					w.log.Warn("slots.worker: failed to refresh leader lock TTL", zap.Error(err))
				}
			}
		}
	}()

	today := w.clock.Now().Format(DateLayout)
	_ = utils.LogOperation(w.log, "slots.worker.publish_cutoff_invalidation", utils.GenerateRequestID(), func() error {
		return w.notifier.Publish(ctx, today)
	})
}

// BoundarySpecs returns cron specs firing at the start of every catalog slot,
// which is the moment that slot stops being bookable. Slots sharing a minute
// share one spec.
func BoundarySpecs(catalog *Catalog) []string {
	hoursByMinute := make(map[int][]string)
	for _, slot := range catalog.AllSlots() {
		hoursByMinute[slot.Minute] = append(hoursByMinute[slot.Minute], strconv.Itoa(slot.Hour))
	}

	minutes := make([]int, 0, len(hoursByMinute))
	for minute := range hoursByMinute {
		minutes = append(minutes, minute)
	}
	sort.Ints(minutes)

	specs := make([]string, 0, len(minutes))
	for _, minute := range minutes {
		specs = append(specs, fmt.Sprintf("%d %s * * *", minute, strings.Join(hoursByMinute[minute], ",")))
	}
	return specs
}
