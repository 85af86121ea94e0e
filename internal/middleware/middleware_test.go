package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"HostelAPI/internal/auth"
	"HostelAPI/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func limitedRouter(rl *RateLimiter, user *auth.User) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(auth.ContextKeyUser, user)
		}
		c.Next()
	})
	r.Use(rl.Handler())
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	r.GET("/things", ok)
	r.POST("/things", ok)
	return r
}

func send(r http.Handler, method, path, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitRejectsWritesOverBurst(t *testing.T) {
	rl := NewRateLimiter(0.5, 2)
	r := limitedRouter(rl, nil)

	assert.Equal(t, http.StatusNoContent, send(r, http.MethodPost, "/things", "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusNoContent, send(r, http.MethodPost, "/things", "10.0.0.1:1234").Code)

	w := send(r, http.MethodPost, "/things", "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate limit exceeded")

	// Another client has its own bucket
	assert.Equal(t, http.StatusNoContent, send(r, http.MethodPost, "/things", "10.0.0.2:1234").Code)
}

func TestRateLimitIgnoresReads(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	r := limitedRouter(rl, nil)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusNoContent, send(r, http.MethodGet, "/things", "10.0.0.1:1234").Code)
	}
	assert.Empty(t, rl.limiters)
}

func TestRateLimitKeysSignedInUsersByID(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	user := &auth.User{ID: uuid.New().String()}
	r := limitedRouter(rl, user)

	assert.Equal(t, http.StatusNoContent, send(r, http.MethodPost, "/things", "10.0.0.1:1234").Code)
	// Same user from a different address shares the bucket
	assert.Equal(t, http.StatusTooManyRequests, send(r, http.MethodPost, "/things", "10.0.0.9:1234").Code)

	require.Contains(t, rl.limiters, "user:"+user.ID)
}

func TestRateLimitCleanup(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	rl.Allow("ip:10.0.0.1")
	now = now.Add(limiterIdleTTL / 2)
	rl.Allow("ip:10.0.0.2")

	now = now.Add(limiterIdleTTL/2 + time.Second)
	assert.Equal(t, 1, rl.Cleanup())
	assert.NotContains(t, rl.limiters, "ip:10.0.0.1")
	assert.Contains(t, rl.limiters, "ip:10.0.0.2")
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(logging.RequestIDKey))
	})

	w := send(r, http.MethodGet, "/", "")
	generated := w.Header().Get(HeaderRequestID)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())

	supplied := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, supplied)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, supplied, w.Header().Get(HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "not-a-uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(HeaderRequestID))
}

func TestCORS(t *testing.T) {
	reached := 0
	r := gin.New()
	r.Use(CORS(CORSConfig{AllowedOrigins: SplitOrigins("http://localhost:3000, ,https://hostel.example")}))
	r.Any("/api/status", func(c *gin.Context) {
		reached++
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/status", nil)
	req.Header.Set("Origin", "https://hostel.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "https://hostel.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Less(t, w.Code, 300)
	assert.Equal(t, 0, reached)

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, 1, reached)

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
