package middlewares

import (
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/exceptions"
	"delivery-slot-service/internal/pkg/utils"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter throttles booking submissions per principal. A principal that
// exhausts its burst is blocked for blockTime.
type RateLimiter struct {
	log       *zap.Logger
	limiters  map[string]*rate.Limiter
	blocked   map[string]time.Time
	mu        sync.Mutex
	requests  int
	per       time.Duration
	blockTime time.Duration
	now       func() time.Time
}

func NewRateLimiter(logger *zap.Logger, requests int, per, blockTime time.Duration) *RateLimiter {
	return &RateLimiter{
		log:       logger,
		limiters:  make(map[string]*rate.Limiter),
		blocked:   make(map[string]time.Time),
		requests:  requests,
		per:       per,
		blockTime: blockTime,
		now:       time.Now,
	}
}

// NewSubmissionRateLimiter spreads SubmissionsPerMinute over a minute with
// the same number as burst.
func (m *Middlewares) NewSubmissionRateLimiter() *RateLimiter {
	perMinute := m.InternalConfig.App.SubmissionsPerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	return NewRateLimiter(
		m.Log,
		perMinute,
		time.Minute/time.Duration(perMinute),
		time.Duration(m.InternalConfig.App.SubmissionBlockTimeInSecond)*time.Second,
	)
}

func limiterKey(r *http.Request) string {
	if principal := utils.GetPrincipal(r.Context()); principal != nil {
		return "principal:" + principal.ID
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + ip
}

func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		key := limiterKey(req)

		rl.mu.Lock()

		if blockedUntil, found := rl.blocked[key]; found {
			if rl.now().Before(blockedUntil) {
				rl.mu.Unlock()
				rl.reject(w, req, key, blockedUntil)
				return
			}

			delete(rl.blocked, key)
		}

		limiter, exists := rl.limiters[key]
		if !exists {
			limiter = rate.NewLimiter(rate.Every(rl.per), rl.requests)
			rl.limiters[key] = limiter
		}

		if !limiter.AllowN(rl.now(), 1) {
			blockedUntil := rl.now().Add(rl.blockTime)
			rl.blocked[key] = blockedUntil
			rl.mu.Unlock()
			rl.reject(w, req, key, blockedUntil)
			return
		}

		rl.mu.Unlock()
		next.ServeHTTP(w, req)
	})
}

func (rl *RateLimiter) reject(w http.ResponseWriter, req *http.Request, key string, until time.Time) {
	retryAfter := int(until.Sub(rl.now()).Seconds()) + 1
	rl.log.Warn("RateLimiter.Limit rejected request",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(req.Context())),
		zap.String("limiter_key", key),
		zap.Int("retry_after_seconds", retryAfter),
	)
	w.Header().Set(constvars.HeaderRetryAfter, strconv.Itoa(retryAfter))
	utils.BuildErrorResponse(rl.log, w, exceptions.ErrTooManyRequests(nil))
}
