package api

// CacheItem is the write payload for single and bulk stores. TTL is optional
// and defaults to one hour server-side.
type CacheItem struct {
	Key        string                 `json:"key" binding:"required"`
	Data       map[string]interface{} `json:"data" binding:"required"`
	TTLSeconds *int                   `json:"ttl_seconds,omitempty" binding:"omitempty,gte=1"`
}

// BulkRequest is the body of POST /cache/bulk.
type BulkRequest []CacheItem
