package api

// StoreResponse confirms a single write.
type StoreResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Key        string `json:"key"`
	TTLSeconds int    `json:"ttl_seconds"`
	CachedAt   string `json:"cached_at"`
}

// CacheResponse is a retrieved entry. TTLRemaining is nil when the key has
// no expiry set; the store's raw sentinel is never surfaced.
type CacheResponse struct {
	Key          string                 `json:"key"`
	Data         map[string]interface{} `json:"data"`
	CachedAt     string                 `json:"cached_at"`
	TTLRemaining *int64                 `json:"ttl_remaining,omitempty"`
}

// DeleteResponse confirms a removal.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ExistsResponse is a non-consuming existence probe result.
type ExistsResponse struct {
	Key          string `json:"key"`
	Exists       bool   `json:"exists"`
	TTLRemaining *int64 `json:"ttl_remaining,omitempty"`
}

// ListResponse enumerates keys matching a pattern. The scan is capped
// server-side; Count is the number returned, not the namespace size.
type ListResponse struct {
	Pattern string   `json:"pattern"`
	Keys    []string `json:"keys"`
	Count   int      `json:"count"`
}

// BulkResponse confirms a pipelined batch write. The batch is not atomic and
// there is no per-item status: on failure callers cannot tell which items
// landed.
type BulkResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Keys    []string `json:"keys"`
}

// HealthResponse reports liveness. The endpoint always answers 200 so
// monitors can tell "service up, dependency down" from "service down".
type HealthResponse struct {
	Status    string `json:"status"` // healthy, unhealthy
	Redis     string `json:"redis"`  // connected, disconnected
	Error     string `json:"error,omitempty"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// MetaResponse is the root service descriptor.
type MetaResponse struct {
	Service           string            `json:"service"`
	Version           string            `json:"version"`
	Status            string            `json:"status"`
	AvailableVersions []string          `json:"available_versions"`
	Endpoints         map[string]string `json:"endpoints"`
	Timestamp         string            `json:"timestamp"`
}
