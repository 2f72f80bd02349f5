package notifier

import (
	"context"
	"delivery-slot-service/internal/pkg/constvars"
	"sync"

	"go.uber.org/zap"
)

// AllDates subscribes to invalidations for every date.
const AllDates = ""

// Hub is the in-process fan-out. Every subscriber owns an unbounded FIFO and a
// goroutine draining it, so a slow subscriber never blocks Publish and each
// one observes the dates in publish order.
type Hub struct {
	log *zap.Logger

	mu          sync.Mutex
	nextID      uint64
	subscribers map[uint64]*subscriber
	versions    map[string]int64
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log:         log,
		subscribers: make(map[uint64]*subscriber),
		versions:    make(map[string]int64),
	}
}

func (h *Hub) Publish(ctx context.Context, date string) error {
	h.mu.Lock()
	h.versions[date]++
	for _, sub := range h.subscribers {
		if sub.date == AllDates || sub.date == date {
			sub.enqueue(date)
		}
	}
	h.mu.Unlock()
	return nil
}

func (h *Hub) Subscribe(date string, fn func(date string)) func() {
	sub := newSubscriber(date, fn, h.log)

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subscribers[id] = sub
	h.mu.Unlock()

	go sub.run()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, id)
			h.mu.Unlock()
			sub.close()
		})
	}
}

// Version is a per-process counter. RedisBridge replaces it with a shared one.
func (h *Hub) Version(ctx context.Context, date string) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.versions[date], nil
}

// SubscriberCount is exposed for tests and diagnostics.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

type subscriber struct {
	date string
	fn   func(date string)
	log  *zap.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []string
	closed bool
}

func newSubscriber(date string, fn func(string), log *zap.Logger) *subscriber {
	s := &subscriber{date: date, fn: fn, log: log}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *subscriber) enqueue(date string) {
	s.mu.Lock()
	if !s.closed {
		s.queue = append(s.queue, date)
		s.cond.Signal()
	}
	s.mu.Unlock()
}

func (s *subscriber) close() {
	s.mu.Lock()
	s.closed = true
	s.queue = nil
	s.cond.Signal()
	s.mu.Unlock()
}

func (s *subscriber) run() {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			return
		}
		date := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.deliver(date)
	}
}

func (s *subscriber) deliver(date string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("notifier.Hub subscriber panicked",
				zap.String(constvars.LoggingBookingDateKey, date),
				zap.Any("panic", r),
			)
		}
	}()
	s.fn(date)
}
