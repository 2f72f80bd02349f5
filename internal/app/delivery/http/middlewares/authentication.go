package middlewares

import (
	"delivery-slot-service/internal/app/models"
	"delivery-slot-service/internal/app/services/shared/jwtmanager"
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/exceptions"
	"delivery-slot-service/internal/pkg/utils"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Authenticate turns a bearer token into a Principal on the request context.
// A request already authenticated by APIKeyAuth passes through untouched.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if utils.GetPrincipal(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get(constvars.HeaderAuthorization)
		if authHeader == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}
		if !strings.HasPrefix(authHeader, constvars.BearerPrefix) {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenInvalidOrExpired(nil))
			return
		}

		out, err := m.TokenVerifier.VerifyToken(r.Context(), &jwtmanager.VerifyTokenInput{
			Token: strings.TrimSpace(strings.TrimPrefix(authHeader, constvars.BearerPrefix)),
		})
		if err != nil || out == nil || !out.Valid {
			m.Log.Info("Middlewares.Authenticate rejected token",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(r.Context())),
				zap.Error(err),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenInvalidOrExpired(err))
			return
		}

		principal := m.principalFromClaims(out.Claims)
		next.ServeHTTP(w, r.WithContext(utils.WithPrincipal(r.Context(), principal)))
	})
}

func (m *Middlewares) principalFromClaims(claims *jwtmanager.PrincipalClaims) *models.Principal {
	principal := &models.Principal{
		ID:    claims.Subject,
		Email: strings.TrimSpace(claims.Email),
		Roles: claims.Roles,
	}
	principal.IsAdmin = principal.HasRole(constvars.RoleAdmin) ||
		isAdminEmail(principal.Email, m.InternalConfig.App.AdminEmailDomain)
	return principal
}

func isAdminEmail(email, domain string) bool {
	domain = strings.TrimPrefix(strings.TrimSpace(domain), "@")
	if domain == "" {
		return false
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return strings.EqualFold(email[at+1:], domain)
}

// RequireAdmin guards the admin-only routes before they reach a usecase.
func (m *Middlewares) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := utils.GetPrincipal(r.Context())
		if principal == nil {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrUnauthenticated(nil))
			return
		}
		if !principal.IsAdmin {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrForbidden(nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}
