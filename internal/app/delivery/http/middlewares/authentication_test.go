package middlewares

import (
	"context"
	"delivery-slot-service/internal/app/config"
	"delivery-slot-service/internal/app/models"
	"delivery-slot-service/internal/app/services/shared/jwtmanager"
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/utils"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthMiddlewares(t *testing.T) (*Middlewares, *jwtmanager.JWTManager) {
	t.Helper()
	cfg := &config.InternalConfig{
		App: config.App{AdminEmailDomain: "mmm.com"},
		JWT: config.AppJWT{Secret: "test-secret", ExpTimeInHour: 1},
	}
	manager, err := jwtmanager.NewJWTManager(cfg, zap.NewNop())
	require.NoError(t, err)
	return NewMiddlewares(zap.NewNop(), cfg, manager, nil), manager
}

func bearer(t *testing.T, manager *jwtmanager.JWTManager, subject, email string, roles ...string) string {
	t.Helper()
	out, err := manager.CreateToken(context.Background(), &jwtmanager.CreateTokenInput{
		Subject: subject,
		Email:   email,
		Roles:   roles,
	})
	require.NoError(t, err)
	return constvars.BearerPrefix + out.Token
}

func TestAuthenticate(t *testing.T) {
	m, manager := newAuthMiddlewares(t)

	var seen *models.Principal
	handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = utils.GetPrincipal(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name      string
		header    string
		wantCode  int
		wantID    string
		wantAdmin bool
	}{
		{name: "supplier", header: bearer(t, manager, "sup-1", "ana@acme.example", "supplier"), wantCode: http.StatusOK, wantID: "sup-1"},
		{name: "admin by role", header: bearer(t, manager, "adm-1", "boss@acme.example", "admin"), wantCode: http.StatusOK, wantID: "adm-1", wantAdmin: true},
		{name: "admin by email domain", header: bearer(t, manager, "adm-2", "Ops@MMM.com"), wantCode: http.StatusOK, wantID: "adm-2", wantAdmin: true},
		{name: "lookalike domain is not admin", header: bearer(t, manager, "sup-2", "x@notmmm.com"), wantCode: http.StatusOK, wantID: "sup-2"},
		{name: "missing header", header: "", wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantCode: http.StatusUnauthorized},
		{name: "garbage token", header: constvars.BearerPrefix + "not-a-jwt", wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
			if tt.header != "" {
				req.Header.Set(constvars.HeaderAuthorization, tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			if tt.wantCode != http.StatusOK {
				assert.Nil(t, seen)
				return
			}
			require.NotNil(t, seen)
			assert.Equal(t, tt.wantID, seen.ID)
			assert.Equal(t, tt.wantAdmin, seen.IsAdmin)
		})
	}
}

func TestAuthenticate_KeepsServiceAccountPrincipal(t *testing.T) {
	m, _ := newAuthMiddlewares(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	req = req.WithContext(utils.WithPrincipal(req.Context(), &models.Principal{ID: constvars.ServiceAccountID, IsAdmin: true}))

	rr := httptest.NewRecorder()
	m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, constvars.ServiceAccountID, utils.GetPrincipal(r.Context()).ID)
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRequireAdmin(t *testing.T) {
	m, _ := newAuthMiddlewares(t)
	handler := m.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	run := func(p *models.Principal) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/stats", nil)
		if p != nil {
			req = req.WithContext(utils.WithPrincipal(req.Context(), p))
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusUnauthorized, run(nil))
	assert.Equal(t, http.StatusForbidden, run(&models.Principal{ID: "sup-1"}))
	assert.Equal(t, http.StatusOK, run(&models.Principal{ID: "adm-1", IsAdmin: true}))
}

func TestIsAdminEmail(t *testing.T) {
	assert.True(t, isAdminEmail("a@mmm.com", "@mmm.com"))
	assert.False(t, isAdminEmail("a@mmm.com", ""))
	assert.False(t, isAdminEmail("mmm.com", "mmm.com"))
}
