package middlewares

import (
	"context"
	"delivery-slot-service/internal/app/models"
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/exceptions"
	"delivery-slot-service/internal/pkg/utils"
	"net/http"

	"go.uber.org/zap"
)

// APIKeyAuth lets service accounts act as administrators. Requests without
// the header fall through to bearer authentication.
func (m *Middlewares) APIKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(constvars.HeaderAPIKey)

		if apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		if !utils.CheckAPIKeyHash(apiKey, m.InternalConfig.App.AdminAPIKeyHash) {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrInvalidAPIKey(nil))
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_API_KEY_AUTH_KEY, true)
		ctx = utils.WithPrincipal(ctx, &models.Principal{
			ID:      constvars.ServiceAccountID,
			Email:   constvars.ServiceAccountEmail,
			Roles:   []string{constvars.RoleAdmin},
			IsAdmin: true,
		})

		m.Log.Info("API Key authentication successful",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
			zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			zap.String(constvars.LoggingMethodKey, r.Method),
		)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
