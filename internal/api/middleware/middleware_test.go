package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Second)
	rl.now = func() time.Time { return now }
	rl.lastTime = now

	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())

	// 半秒補一個令牌
	now = now.Add(500 * time.Millisecond)
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())

	// 不超過容量
	now = now.Add(time.Hour)
	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())
}

func TestRateLimit_Responds429(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(1, time.Minute))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRateLimit_SharedAcrossClients(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(1, time.Minute))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.2:1234"))
}

// fakeStore 以 map 模擬快取
type fakeStore struct {
	keys map[string]bool
	err  error
}

func (f *fakeStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	return true, nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	delete(f.keys, key)
	return nil
}

func (f *fakeStore) Stats() map[string]interface{} { return nil }
func (f *fakeStore) Close() error { return nil }

func TestDeduplication_RejectsRepeatedBody(t *testing.T) {
	store := &fakeStore{keys: map[string]bool{}}
	r := gin.New()
	r.Use(Deduplication(store, time.Second))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusCreated) })

	send := func(body string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, send(`{"a":1}`))
	assert.Equal(t, http.StatusTooManyRequests, send(`{"a":1}`))
	assert.Equal(t, http.StatusCreated, send(`{"a":2}`))
}

func TestDeduplication_ReleasesFailedRequest(t *testing.T) {
	store := &fakeStore{keys: map[string]bool{}}
	r := gin.New()
	r.Use(Deduplication(store, time.Minute))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"weightKg":0}`)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
	assert.Empty(t, store.keys)
}

func TestDeduplication_MutationStartsNewGeneration(t *testing.T) {
	store := &fakeStore{keys: map[string]bool{}}
	r := gin.New()
	r.Use(Deduplication(store, time.Minute))
	r.POST("/items", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.DELETE("/items/:id", func(c *gin.Context) {
		if c.Param("id") == "missing" {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusOK)
	})

	send := func(method, path, body string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, send(http.MethodPost, "/items", `{"id":"a"}`))
	assert.Equal(t, http.StatusTooManyRequests, send(http.MethodPost, "/items", `{"id":"a"}`))

	// 失敗的刪除不影響
	assert.Equal(t, http.StatusNotFound, send(http.MethodDelete, "/items/missing", ""))
	assert.Equal(t, http.StatusTooManyRequests, send(http.MethodPost, "/items", `{"id":"a"}`))

	assert.Equal(t, http.StatusOK, send(http.MethodDelete, "/items/a", ""))
	assert.Equal(t, http.StatusCreated, send(http.MethodPost, "/items", `{"id":"a"}`))
}

func TestDeduplication_FailsOpen(t *testing.T) {
	store := &fakeStore{err: errors.New("redis down")}
	r := gin.New()
	r.Use(Deduplication(store, time.Second))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusCreated) })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusCreated, w.Code)
	}
}

func TestBodySizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodySizeLimit(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"too long"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
