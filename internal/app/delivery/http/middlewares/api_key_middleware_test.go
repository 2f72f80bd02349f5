package middlewares

import (
	"delivery-slot-service/internal/app/config"
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/utils"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestAPIKeyAuth(t *testing.T) {
	logger := zap.NewNop()

	testAPIKey := "test-admin-api-key-12345"
	hash, err := bcrypt.GenerateFromPassword([]byte(testAPIKey), bcrypt.MinCost)
	require.NoError(t, err)

	middlewares := &Middlewares{
		Log: logger,
		InternalConfig: &config.InternalConfig{
			App: config.App{AdminAPIKeyHash: string(hash)},
		},
	}

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKeyAuth, ok := r.Context().Value(constvars.CONTEXT_API_KEY_AUTH_KEY).(bool)
		assert.True(t, ok, "api key flag should be set")
		assert.True(t, apiKeyAuth)

		principal := utils.GetPrincipal(r.Context())
		if assert.NotNil(t, principal, "principal should be set in context") {
			assert.Equal(t, constvars.ServiceAccountID, principal.ID)
			assert.True(t, principal.IsAdmin, "service account should act as admin")
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	})

	t.Run("Valid API Key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/bk-1/approve", nil)
		req.Header.Set(constvars.HeaderAPIKey, testAPIKey)

		rr := httptest.NewRecorder()
		middlewares.APIKeyAuth(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "success", rr.Body.String())
	})

	t.Run("Missing API Key falls through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/bk-1/approve", nil)

		reached := false
		rr := httptest.NewRecorder()
		middlewares.APIKeyAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			assert.Nil(t, utils.GetPrincipal(r.Context()))
		})).ServeHTTP(rr, req)

		assert.True(t, reached)
	})

	t.Run("Invalid API Key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/bk-1/approve", nil)
		req.Header.Set(constvars.HeaderAPIKey, "invalid-api-key")

		rr := httptest.NewRecorder()
		middlewares.APIKeyAuth(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("No hash configured rejects every key", func(t *testing.T) {
		bare := &Middlewares{Log: logger, InternalConfig: &config.InternalConfig{}}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
		req.Header.Set(constvars.HeaderAPIKey, testAPIKey)

		rr := httptest.NewRecorder()
		bare.APIKeyAuth(testHandler).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
