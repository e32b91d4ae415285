package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"opsdeck/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})
	return r
}

func TestAuthRequiredMiddleware(t *testing.T) {
	services.InitAuthService("middleware-test-key-that-is-long-enough", "", time.Hour)
	r := newTestRouter(AuthRequiredMiddleware())

	// No token
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Garbage token
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token in header
	token, err := services.GenerateToken("test")
	require.NoError(t, err)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Valid token in query parameter
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping?token="+token, nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	r := newTestRouter(SecurityHeadersMiddleware())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
}

func TestIPWhitelist(t *testing.T) {
	// Empty whitelist allows everyone
	wl := NewIPWhitelist(nil)
	assert.True(t, wl.IsAllowed("203.0.113.9"))

	wl = NewIPWhitelist([]string{"10.0.0.5"})
	assert.True(t, wl.IsAllowed("10.0.0.5"))
	assert.False(t, wl.IsAllowed("10.0.0.6"))

	// Localhost always passes
	assert.True(t, wl.IsAllowed("127.0.0.1"))
	assert.True(t, wl.IsAllowed("::1"))
}

func TestInputValidator(t *testing.T) {
	v := NewInputValidator()

	assert.True(t, v.ValidateServerName("web-1.prod"))
	assert.True(t, v.ValidateServerName("host_01"))
	assert.False(t, v.ValidateServerName(""))
	assert.False(t, v.ValidateServerName("bad name"))
	assert.False(t, v.ValidateServerName("semi;colon"))

	assert.True(t, v.ValidateToken("aaaaaaaaaa.bbbbbbbbbb.cccccccccc"))
	assert.False(t, v.ValidateToken("short"))
	assert.False(t, v.ValidateToken("no-dots-in-this-string-at-all"))
}

func TestRateLimiterReusesLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter()
	first := rl.GetLimiter("10.1.1.1")
	second := rl.GetLimiter("10.1.1.1")
	assert.Same(t, first, second)

	other := rl.GetLimiter("10.1.1.2")
	assert.NotSame(t, first, other)
}

func TestTokenRateLimitMiddlewareBlocksBursts(t *testing.T) {
	limiter := NewTokenRateLimiter()
	r := newTestRouter(TokenRateLimitMiddleware(limiter))

	blocked := false
	for i := 0; i < 20; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "198.51.100.7:4321"
		r.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			blocked = true
			break
		}
	}
	assert.True(t, blocked, "burst beyond the bucket should be rejected")
}
