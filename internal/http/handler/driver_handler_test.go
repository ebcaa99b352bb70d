package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quotedesk/quotation-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postDriver(t *testing.T, env *testEnv, payload string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/drivers", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestDriverHandlerCreate(t *testing.T) {
	t.Run("provisions a driver", func(t *testing.T) {
		env := setupTestEnv(t)

		rec := postDriver(t, env, `{
			"name": "Jonas Lie",
			"email": "Jonas.Lie@quotedesk.test",
			"phone": "+47 900 11 222",
			"role": "driver"
		}`)

		require.Equal(t, http.StatusCreated, rec.Code)

		var body domain.DriverDTO
		decodeBody(t, rec.Result(), &body)
		assert.Equal(t, "Jonas Lie", body.Name)
		assert.Equal(t, "jonas.lie@quotedesk.test", body.Email)
		assert.Equal(t, "user_2x9zK", body.ClerkID)
		assert.Equal(t, domain.RoleDriver, body.Role)

		assert.Equal(t, 1, env.provider.calls)
		assert.Len(t, env.provider.params.Password, 8)
	})

	t.Run("supplied identity reference is stored as-is", func(t *testing.T) {
		env := setupTestEnv(t)

		rec := postDriver(t, env, `{"name":"Jonas Lie","email":"jonas@quotedesk.test","phone":"+47 900 11 222","role":"driver","clerk_id":"user_existing_123"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var body domain.DriverDTO
		decodeBody(t, rec.Result(), &body)
		assert.Equal(t, "user_existing_123", body.ClerkID)
		assert.Zero(t, env.provider.calls)
	})

	t.Run("duplicate email returns 409", func(t *testing.T) {
		env := setupTestEnv(t)

		rec := postDriver(t, env, `{"name":"Jonas Lie","email":"jonas@quotedesk.test","phone":"+47 900 11 222","role":"driver"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = postDriver(t, env, `{"name":"Other Jonas","email":"JONAS@quotedesk.test","phone":"+47 900 11 333","role":"admin"}`)
		require.Equal(t, http.StatusConflict, rec.Code)

		var body domain.APIError
		decodeBody(t, rec.Result(), &body)
		assert.Equal(t, domain.ErrorTypeConflict, body.Type)
		assert.Equal(t, 1, env.provider.calls)
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		env := setupTestEnv(t)

		rec := postDriver(t, env, `{"name":"Jonas Lie"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body domain.APIError
		decodeBody(t, rec.Result(), &body)
		assert.Equal(t, domain.ErrorTypeValidation, body.Type)
		assert.Contains(t, body.Errors, "email")
		assert.Contains(t, body.Errors, "phone")
		assert.Contains(t, body.Errors, "role")
		assert.Zero(t, env.provider.calls)
	})

	t.Run("unknown role fails validation", func(t *testing.T) {
		env := setupTestEnv(t)

		rec := postDriver(t, env, `{"name":"Jonas Lie","email":"jonas@quotedesk.test","phone":"+47 900 11 222","role":"pilot"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, env.provider.calls)
	})

	t.Run("short phone returns 400", func(t *testing.T) {
		env := setupTestEnv(t)

		rec := postDriver(t, env, `{"name":"Jonas Lie","email":"jonas@quotedesk.test","phone":"12345","role":"driver"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, env.provider.calls)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		env := setupTestEnv(t)

		rec := postDriver(t, env, `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDriverHandlerList(t *testing.T) {
	env := setupTestEnv(t)

	for _, payload := range []string{
		`{"name":"Jonas Lie","email":"jonas@quotedesk.test","phone":"+47 900 11 222","role":"driver"}`,
		`{"name":"Nora Dahl","email":"nora@quotedesk.test","phone":"+47 900 11 333","role":"dispatcher"}`,
	} {
		rec := postDriver(t, env, payload)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	t.Run("paginated listing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/drivers?page=1&limit=10", nil)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body domain.PaginatedResponse
		decodeBody(t, rec.Result(), &body)
		assert.Equal(t, int64(2), body.Total)
	})

	t.Run("filter by name", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/drivers?query=nora", nil)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body domain.PaginatedResponse
		decodeBody(t, rec.Result(), &body)
		assert.Equal(t, int64(1), body.Total)
	})
}
