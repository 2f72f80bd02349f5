package notifier

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recorder struct {
	mu    sync.Mutex
	dates []string
	ch    chan struct{}
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan struct{}, 100)}
}

func (r *recorder) record(date string) {
	r.mu.Lock()
	r.dates = append(r.dates, date)
	r.mu.Unlock()
	r.ch <- struct{}{}
}

func (r *recorder) wait(t *testing.T, n int) []string {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.ch:
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for delivery %d of %d", i+1, n)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.dates...)
}

func TestHub_DeliversInPublishOrder(t *testing.T) {
	hub := NewHub(zap.NewNop())
	rec := newRecorder()
	unsubscribe := hub.Subscribe(AllDates, rec.record)
	defer unsubscribe()

	dates := []string{"2026-10-20", "2026-10-21", "2026-10-20", "2026-10-22"}
	for _, d := range dates {
		require.NoError(t, hub.Publish(context.Background(), d))
	}

	assert.Equal(t, dates, rec.wait(t, len(dates)))
}

func TestHub_FiltersByDate(t *testing.T) {
	hub := NewHub(zap.NewNop())
	rec := newRecorder()
	defer hub.Subscribe("2026-10-21", rec.record)()

	_ = hub.Publish(context.Background(), "2026-10-20")
	_ = hub.Publish(context.Background(), "2026-10-21")

	assert.Equal(t, []string{"2026-10-21"}, rec.wait(t, 1))
}

func TestHub_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	hub := NewHub(zap.NewNop())
	release := make(chan struct{})
	defer hub.Subscribe(AllDates, func(string) { <-release })()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			_ = hub.Publish(context.Background(), "2026-10-20")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
	close(release)
}

func TestHub_UnsubscribeIsIdempotent(t *testing.T) {
	hub := NewHub(zap.NewNop())
	unsubscribe := hub.Subscribe(AllDates, func(string) {})
	assert.Equal(t, 1, hub.SubscriberCount())

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, hub.SubscriberCount())
}

func TestHub_PanickingSubscriberKeepsRunning(t *testing.T) {
	hub := NewHub(zap.NewNop())
	rec := newRecorder()
	calls := 0
	defer hub.Subscribe(AllDates, func(date string) {
		calls++
		if calls == 1 {
			panic("boom")
		}
		rec.record(date)
	})()

	_ = hub.Publish(context.Background(), "2026-10-20")
	_ = hub.Publish(context.Background(), "2026-10-21")

	assert.Equal(t, []string{"2026-10-21"}, rec.wait(t, 1))
}

func TestHub_VersionCountsPublishes(t *testing.T) {
	hub := NewHub(zap.NewNop())
	_ = hub.Publish(context.Background(), "2026-10-20")
	_ = hub.Publish(context.Background(), "2026-10-20")

	v, err := hub.Version(context.Background(), "2026-10-20")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), v)

	v, _ = hub.Version(context.Background(), "2026-10-21")
	assert.Equal(t, int64(0), v)
}
