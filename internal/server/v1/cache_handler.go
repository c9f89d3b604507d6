package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nulzo/cache-gateway-api/internal/cache"
	"github.com/nulzo/cache-gateway-api/internal/server/validator"
	"github.com/nulzo/cache-gateway-api/pkg/api"
)

type CacheHandler struct {
	service   *cache.Service
	validator *validator.Validator
}

func NewCacheHandler(service *cache.Service, v *validator.Validator) *CacheHandler {
	return &CacheHandler{
		service:   service,
		validator: v,
	}
}

// Store writes a JSON object under the caller's key.
//
// POST /cache
func (h *CacheHandler) Store(c *gin.Context) {
	var item api.CacheItem
	if err := c.ShouldBindJSON(&item); err != nil {
		_ = c.Error(api.ValidationError(h.validator.ParseError(err)))
		return
	}

	cachedAt, ttl, err := h.service.Store(c.Request.Context(), item.Key, item.Data, itemTTL(&item))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, api.StoreResponse{
		Success:    true,
		Message:    fmt.Sprintf("Stored '%s' in cache", item.Key),
		Key:        item.Key,
		TTLSeconds: int(ttl / time.Second),
		CachedAt:   cachedAt,
	})
}

// Get retrieves a cached JSON object along with its remaining TTL.
//
// GET /cache/:key
func (h *CacheHandler) Get(c *gin.Context) {
	entry, err := h.service.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, api.CacheResponse{
		Key:          entry.Key,
		Data:         entry.Data,
		CachedAt:     entry.CachedAt,
		TTLRemaining: entry.TTLRemaining,
	})
}

// Delete removes a cached entry. Absent keys answer 404.
//
// DELETE /cache/:key
func (h *CacheHandler) Delete(c *gin.Context) {
	key := c.Param("key")
	if err := h.service.Delete(c.Request.Context(), key); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, api.DeleteResponse{
		Success: true,
		Message: fmt.Sprintf("Deleted '%s' from cache", key),
	})
}

// Exists probes for a key without consuming it.
//
// GET /cache/:key/exists
func (h *CacheHandler) Exists(c *gin.Context) {
	key := c.Param("key")
	probe, err := h.service.Exists(c.Request.Context(), key)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, api.ExistsResponse{
		Key:          key,
		Exists:       probe.Exists,
		TTLRemaining: probe.TTLRemaining,
	})
}

// List enumerates keys matching a glob pattern. The scan is capped
// server-side; this is a diagnostic endpoint, not a hot-path one.
//
// GET /cache?pattern=*
func (h *CacheHandler) List(c *gin.Context) {
	pattern := c.DefaultQuery("pattern", "*")

	keys, err := h.service.List(c.Request.Context(), pattern)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, api.ListResponse{
		Pattern: pattern,
		Keys:    keys,
		Count:   len(keys),
	})
}

// StoreBulk writes a batch of entries in one pipelined round trip. The batch
// is not atomic and failures carry no per-item detail.
//
// POST /cache/bulk
func (h *CacheHandler) StoreBulk(c *gin.Context) {
	var req api.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(h.validator.ParseError(err)))
		return
	}

	items := make([]cache.Item, 0, len(req))
	for i := range req {
		items = append(items, cache.Item{
			Key:  req[i].Key,
			Data: req[i].Data,
			TTL:  itemTTL(&req[i]),
		})
	}

	keys, err := h.service.StoreBulk(c.Request.Context(), items)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, api.BulkResponse{
		Success: true,
		Message: fmt.Sprintf("Stored %d items in cache", len(keys)),
		Keys:    keys,
	})
}

func itemTTL(item *api.CacheItem) time.Duration {
	if item.TTLSeconds == nil {
		return cache.DefaultTTL
	}
	return time.Duration(*item.TTLSeconds) * time.Second
}
