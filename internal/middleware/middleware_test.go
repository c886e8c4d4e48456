package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cyphera/cyphera-vault/internal/constants"
	"github.com/cyphera/cyphera-vault/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger("test")
	gin.SetMode(gin.TestMode)
}

func TestCorrelationIDMiddleware(t *testing.T) {
	tests := []struct {
		name                 string
		requestCorrelationID string
		expectNewID          bool
	}{
		{name: "New ID generated when header not present", expectNewID: true},
		{name: "Existing ID preserved when header present", requestCorrelationID: "test-correlation-id-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CorrelationIDMiddleware())

			var fromContext string
			router.GET("/test", func(c *gin.Context) {
				fromContext = CorrelationIDFromContext(c.Request.Context())
				c.String(http.StatusOK, GetCorrelationID(c))
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.requestCorrelationID != "" {
				req.Header.Set(CorrelationIDHeader, tt.requestCorrelationID)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			header := w.Header().Get(CorrelationIDHeader)
			assert.Equal(t, header, w.Body.String())
			assert.Equal(t, header, fromContext)
			if tt.expectNewID {
				assert.Len(t, header, 36)
			} else {
				assert.Equal(t, tt.requestCorrelationID, header)
			}
		})
	}
}

func TestCorrelationIDFromContext_Empty(t *testing.T) {
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
	assert.NotNil(t, LogWithCorrelationID(context.Background()))
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/api/v1/vaults", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(path, signer string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if signer != "" {
			req.Header.Set(constants.SignerHeader, signer)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("/api/v1/vaults", "alice").Code)
	assert.Equal(t, http.StatusOK, send("/api/v1/vaults", "alice").Code)

	limited := send("/api/v1/vaults", "alice")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))
	assert.Equal(t, "0", limited.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, send("/api/v1/vaults", "bob").Code, "budgets are per client")
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, send("/health", "alice").Code)
	}
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, 1)
	limiter.now = func() time.Time { return now }

	limiter.getLimiter("signer:alice")
	now = now.Add(idleLimiterTTL + time.Second)
	limiter.getLimiter("signer:bob")
	limiter.evictIdle()

	_, aliceKept := limiter.limiters.Load("signer:alice")
	_, bobKept := limiter.limiters.Load("signer:bob")
	assert.False(t, aliceKept)
	assert.True(t, bobKept)
}

func TestRequestLoggingMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(CorrelationIDMiddleware(), RequestLoggingMiddleware())
	router.GET("/fail", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestReadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":"1"}`))
	body, err := ReadBody(req)
	require.NoError(t, err)
	assert.Equal(t, `{"amount":"1"}`, string(body))

	again, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, body, again)

	big := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", MaxBodyBytes+1)))
	_, err = ReadBody(big)
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}
