package middlewares

import (
	"context"
	"delivery-slot-service/internal/app/config"
	"delivery-slot-service/internal/app/models"
	"delivery-slot-service/internal/app/services/shared/ratelimiter"
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/utils"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func requestAs(principalID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
	if principalID != "" {
		req = req.WithContext(utils.WithPrincipal(req.Context(), &models.Principal{ID: principalID}))
	}
	return req
}

func TestRateLimiter_BlocksPerPrincipal(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(zap.NewNop(), 2, time.Minute, 30*time.Second)
	rl.now = func() time.Time { return now }

	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	serve := func(id string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, requestAs(id))
		return rr
	}

	assert.Equal(t, http.StatusCreated, serve("sup-1").Code)
	assert.Equal(t, http.StatusCreated, serve("sup-1").Code)

	blocked := serve("sup-1")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "31", blocked.Header().Get(constvars.HeaderRetryAfter))

	// Another principal has its own bucket.
	assert.Equal(t, http.StatusCreated, serve("sup-2").Code)

	// Still blocked even though a token was refilled.
	now = now.Add(20 * time.Second)
	assert.Equal(t, http.StatusTooManyRequests, serve("sup-1").Code)

	now = now.Add(time.Minute)
	assert.Equal(t, http.StatusCreated, serve("sup-1").Code)
}

func TestLimiterKey_FallsBackToIP(t *testing.T) {
	req := requestAs("")
	req.RemoteAddr = "10.0.0.7:5123"
	assert.Equal(t, "ip:10.0.0.7", limiterKey(req))
	assert.Equal(t, "principal:sup-1", limiterKey(requestAs("sup-1")))
}

type mockStreamLimiter struct {
	mock.Mock
}

func (m *mockStreamLimiter) ApplyResourceLimiter(ctx context.Context, in *ratelimiter.ApplyResourceLimiterInput) (*ratelimiter.ApplyResourceLimiterOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*ratelimiter.ApplyResourceLimiterOutput)
	return out, args.Error(1)
}

func TestLimitStreamConnects(t *testing.T) {
	cfg := &config.InternalConfig{App: config.App{StreamConnectsPerMinute: 5}}
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("allowed", func(t *testing.T) {
		limiter := new(mockStreamLimiter)
		limiter.On("ApplyResourceLimiter", mock.Anything, mock.MatchedBy(func(in *ratelimiter.ApplyResourceLimiterInput) bool {
			return in.ResourceName == "sup-1" && in.MaxQuota == 5 && in.LimiterGroupName == streamConnectLimiterGroup
		})).Return(&ratelimiter.ApplyResourceLimiterOutput{Allowed: true}, nil)
		m := NewMiddlewares(zap.NewNop(), cfg, nil, limiter)

		rr := httptest.NewRecorder()
		m.LimitStreamConnects(ok).ServeHTTP(rr, requestAs("sup-1"))
		assert.Equal(t, http.StatusOK, rr.Code)
		limiter.AssertExpectations(t)
	})

	t.Run("over quota", func(t *testing.T) {
		limiter := new(mockStreamLimiter)
		limiter.On("ApplyResourceLimiter", mock.Anything, mock.Anything).
			Return(&ratelimiter.ApplyResourceLimiterOutput{Allowed: false, RetryAfterSecs: 42}, nil)
		m := NewMiddlewares(zap.NewNop(), cfg, nil, limiter)

		rr := httptest.NewRecorder()
		m.LimitStreamConnects(ok).ServeHTTP(rr, requestAs("sup-1"))
		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
		assert.Equal(t, "42", rr.Header().Get(constvars.HeaderRetryAfter))
	})

	t.Run("redis down lets the stream open", func(t *testing.T) {
		limiter := new(mockStreamLimiter)
		limiter.On("ApplyResourceLimiter", mock.Anything, mock.Anything).
			Return(&ratelimiter.ApplyResourceLimiterOutput{}, errors.New("redis: connection refused"))
		m := NewMiddlewares(zap.NewNop(), cfg, nil, limiter)

		rr := httptest.NewRecorder()
		m.LimitStreamConnects(ok).ServeHTTP(rr, requestAs("sup-1"))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
