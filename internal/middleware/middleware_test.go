package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toucann/taskengine/internal/ctxkeys"
	"github.com/toucann/taskengine/internal/service"
)

func echoUser(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(ctxkeys.UserID(r.Context())))
}

func TestAuthMiddleware(t *testing.T) {
	auth := service.NewAuthService("test-secret", time.Hour)
	token, err := auth.GenerateJWT("user-42")
	require.NoError(t, err)

	handler := Chain(http.HandlerFunc(echoUser), AuthMiddleware(auth))

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/today", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "user-42", rec.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/today", nil)
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "user-42", rec.Body.String())
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := service.NewAuthService("other", time.Hour).GenerateJWT("user-42")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/today", nil)
		req.Header.Set("Authorization", "Bearer "+other)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("expired", func(t *testing.T) {
		expired, err := service.NewAuthService("test-secret", -time.Minute).GenerateJWT("user-42")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/today", nil)
		req.Header.Set("Authorization", "Bearer "+expired)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Empty(t, rec.Body.String())
	})
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(echoUser)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/today", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"authentication required"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/today", nil)
	req = req.WithContext(ctxkeys.WithUserID(req.Context(), "u1"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())
}

func TestRateLimiter_Window(t *testing.T) {
	rl := &RateLimiter{
		requests: map[string][]time.Time{},
		limit:    2,
		window:   time.Minute,
	}
	current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return current }

	assert.True(t, rl.Allow("u1"))
	assert.True(t, rl.Allow("u1"))
	assert.False(t, rl.Allow("u1"))
	assert.True(t, rl.Allow("u2"))

	current = current.Add(61 * time.Second)
	assert.True(t, rl.Allow("u1"))

	current = current.Add(10 * time.Minute)
	rl.cleanup()
	assert.Empty(t, rl.requests)
}

func TestRateLimit_RespondsJSON(t *testing.T) {
	rl := &RateLimiter{requests: map[string][]time.Time{}, limit: 1, window: time.Minute, now: time.Now}
	handler := RateLimit(rl)(echoUser)

	req := httptest.NewRequest(http.MethodPost, "/api/today/swap", nil)
	req = req.WithContext(ctxkeys.WithUserID(req.Context(), "u1"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "too many requests")
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxkeys.RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc", seen)
}

func TestRequestLogging_PassesStatus(t *testing.T) {
	handler := RequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/today", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
