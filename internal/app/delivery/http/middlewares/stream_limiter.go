package middlewares

import (
	"delivery-slot-service/internal/app/services/shared/ratelimiter"
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/exceptions"
	"delivery-slot-service/internal/pkg/utils"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

const streamConnectLimiterGroup = "SSE_CONNECT"

// LimitStreamConnects caps how often one principal may open the availability
// stream. The window lives in redis so every instance shares it. A redis
// failure lets the connection through.
func (m *Middlewares) LimitStreamConnects(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := utils.GetPrincipal(r.Context())
		if m.StreamLimiter == nil || principal == nil {
			next.ServeHTTP(w, r)
			return
		}

		out, err := m.StreamLimiter.ApplyResourceLimiter(r.Context(), &ratelimiter.ApplyResourceLimiterInput{
			ResourceName:      principal.ID,
			LimiterGroupName:  streamConnectLimiterGroup,
			WindowDurationSec: 60,
			MaxQuota:          m.InternalConfig.App.StreamConnectsPerMinute,
		})
		if err != nil {
			m.Log.Warn("Middlewares.LimitStreamConnects limiter unavailable",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(r.Context())),
				zap.Error(err),
			)
			next.ServeHTTP(w, r)
			return
		}
		if !out.Allowed {
			w.Header().Set(constvars.HeaderRetryAfter, strconv.Itoa(out.RetryAfterSecs))
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTooManyRequests(nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}
