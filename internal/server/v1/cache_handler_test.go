package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nulzo/cache-gateway-api/internal/cache"
	"github.com/nulzo/cache-gateway-api/internal/server/middleware"
	"github.com/nulzo/cache-gateway-api/internal/server/validator"
	v1 "github.com/nulzo/cache-gateway-api/internal/server/v1"
	"github.com/nulzo/cache-gateway-api/pkg/api"
)

func setupEngine(backend cache.Backend) (*gin.Engine, *cache.Service) {
	gin.SetMode(gin.TestMode)

	svc := cache.NewService(backend, zap.NewNop())
	h := v1.NewCacheHandler(svc, validator.New())
	health := v1.NewHealthHandler(svc)

	engine := gin.New()
	engine.Use(middleware.ErrorHandler(zap.NewNop()))

	group := engine.Group("/api/v1")
	group.GET("/health", health.Health)
	group.POST("/cache", h.Store)
	group.GET("/cache", h.List)
	group.POST("/cache/bulk", h.StoreBulk)
	group.GET("/cache/:key", h.Get)
	group.DELETE("/cache/:key", h.Delete)
	group.GET("/cache/:key/exists", h.Exists)

	return engine, svc
}

func doJSON(t *testing.T, engine *gin.Engine, method, url string, payload interface{}, target interface{}) int {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	w := httptest.NewRecorder()
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	engine.ServeHTTP(w, req)

	if target != nil && w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), target))
	}
	return w.Code
}

func TestStoreEndpoint(t *testing.T) {
	engine, _ := setupEngine(cache.NewMemoryBackend())

	var resp api.StoreResponse
	code := doJSON(t, engine, "POST", "/api/v1/cache", api.CacheItem{
		Key:  "acct-1",
		Data: map[string]interface{}{"a": 1},
	}, &resp)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)
	assert.Equal(t, "acct-1", resp.Key)
	assert.Equal(t, 3600, resp.TTLSeconds)
	assert.NotEmpty(t, resp.CachedAt)
}

func TestStoreEndpoint_ValidationErrors(t *testing.T) {
	engine, _ := setupEngine(cache.NewMemoryBackend())

	cases := []struct {
		name    string
		payload interface{}
	}{
		{"missing key", map[string]interface{}{"data": map[string]interface{}{}}},
		{"missing data", map[string]interface{}{"key": "k"}},
		{"zero ttl", map[string]interface{}{"key": "k", "data": map[string]interface{}{}, "ttl_seconds": 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code := doJSON(t, engine, "POST", "/api/v1/cache", tc.payload, nil)
			assert.Equal(t, http.StatusBadRequest, code)
		})
	}
}

func TestGetEndpoint_RoundTrip(t *testing.T) {
	engine, _ := setupEngine(cache.NewMemoryBackend())

	ttl := 120
	code := doJSON(t, engine, "POST", "/api/v1/cache", api.CacheItem{
		Key:        "acct-1",
		Data:       map[string]interface{}{"a": float64(1)},
		TTLSeconds: &ttl,
	}, nil)
	require.Equal(t, http.StatusOK, code)

	var resp api.CacheResponse
	code = doJSON(t, engine, "GET", "/api/v1/cache/acct-1", nil, &resp)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "acct-1", resp.Key)
	assert.Equal(t, map[string]interface{}{"a": float64(1)}, resp.Data)
	require.NotNil(t, resp.TTLRemaining)
	assert.LessOrEqual(t, *resp.TTLRemaining, int64(120))
}

func TestGetEndpoint_NotFound(t *testing.T) {
	engine, _ := setupEngine(cache.NewMemoryBackend())

	code := doJSON(t, engine, "GET", "/api/v1/cache/ghost", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestGetEndpoint_CorruptEntryIs500(t *testing.T) {
	backend := cache.NewMemoryBackend()
	require.NoError(t, backend.Set(context.Background(), "bad", []byte("{nope"), time.Minute))
	engine, _ := setupEngine(backend)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/cache/bad", nil)
	engine.ServeHTTP(w, req)

	// Corrupt is a server-side problem, not a missing key.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDeleteEndpoint(t *testing.T) {
	engine, _ := setupEngine(cache.NewMemoryBackend())

	code := doJSON(t, engine, "POST", "/api/v1/cache", api.CacheItem{
		Key:  "k",
		Data: map[string]interface{}{},
	}, nil)
	require.Equal(t, http.StatusOK, code)

	var resp api.DeleteResponse
	code = doJSON(t, engine, "DELETE", "/api/v1/cache/k", nil, &resp)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)

	// Gone now; a second delete is 404, not a silent success.
	code = doJSON(t, engine, "GET", "/api/v1/cache/k", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code = doJSON(t, engine, "DELETE", "/api/v1/cache/k", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestExistsEndpoint(t *testing.T) {
	engine, _ := setupEngine(cache.NewMemoryBackend())

	var resp api.ExistsResponse
	code := doJSON(t, engine, "GET", "/api/v1/cache/nope/exists", nil, &resp)
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, resp.Exists)
	assert.Nil(t, resp.TTLRemaining)

	ttl := 60
	code = doJSON(t, engine, "POST", "/api/v1/cache", api.CacheItem{
		Key:        "yes",
		Data:       map[string]interface{}{},
		TTLSeconds: &ttl,
	}, nil)
	require.Equal(t, http.StatusOK, code)

	code = doJSON(t, engine, "GET", "/api/v1/cache/yes/exists", nil, &resp)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Exists)
	require.NotNil(t, resp.TTLRemaining)
	assert.LessOrEqual(t, *resp.TTLRemaining, int64(60))
	assert.GreaterOrEqual(t, *resp.TTLRemaining, int64(0))
}

func TestListEndpoint(t *testing.T) {
	engine, _ := setupEngine(cache.NewMemoryBackend())

	for _, key := range []string{"acct-1", "acct-2", "sess-1"} {
		code := doJSON(t, engine, "POST", "/api/v1/cache", api.CacheItem{
			Key:  key,
			Data: map[string]interface{}{},
		}, nil)
		require.Equal(t, http.StatusOK, code)
	}

	var resp api.ListResponse
	code := doJSON(t, engine, "GET", "/api/v1/cache?pattern=acct-*", nil, &resp)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "acct-*", resp.Pattern)
	assert.Equal(t, 2, resp.Count)
	assert.ElementsMatch(t, []string{"acct-1", "acct-2"}, resp.Keys)
}

func TestBulkEndpoint(t *testing.T) {
	engine, _ := setupEngine(cache.NewMemoryBackend())

	ttl := 60
	var resp api.BulkResponse
	code := doJSON(t, engine, "POST", "/api/v1/cache/bulk", api.BulkRequest{
		{Key: "k1", Data: map[string]interface{}{}, TTLSeconds: &ttl},
		{Key: "k2", Data: map[string]interface{}{}, TTLSeconds: &ttl},
	}, &resp)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)
	assert.Equal(t, []string{"k1", "k2"}, resp.Keys)

	for _, key := range resp.Keys {
		var got api.CacheResponse
		code = doJSON(t, engine, "GET", "/api/v1/cache/"+key, nil, &got)
		require.Equal(t, http.StatusOK, code)
		assert.Empty(t, got.Data)
	}
}

func TestHealthEndpoint_Degraded(t *testing.T) {
	backend := cache.NewMemoryBackend()
	engine, _ := setupEngine(backend)

	var resp api.HealthResponse
	code := doJSON(t, engine, "GET", "/api/v1/health", nil, &resp)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "connected", resp.Redis)

	// A dead backend degrades the payload but never the status code.
	require.NoError(t, backend.Close())

	code = doJSON(t, engine, "GET", "/api/v1/health", nil, &resp)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "disconnected", resp.Redis)
	assert.NotEmpty(t, resp.Error)
}
