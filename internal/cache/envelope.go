package cache

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope is the wrapper persisted for every cache entry. The backing store
// owns the real TTL countdown; OriginalTTL is a historical record and may
// diverge from the remaining TTL reported at read time.
type Envelope struct {
	Data        map[string]interface{} `json:"data"`
	CachedAt    string                 `json:"cached_at"`
	OriginalTTL int                    `json:"original_ttl"`
}

func encodeEnvelope(data map[string]interface{}, ttl time.Duration, now time.Time) ([]byte, error) {
	env := Envelope{
		Data:        data,
		CachedAt:    now.UTC().Format(time.RFC3339Nano),
		OriginalTTL: int(ttl / time.Second),
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return raw, nil
}

func decodeEnvelope(raw []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}
	// A well-formed envelope always carries both fields. Data may be an empty
	// object, which unmarshals to a non-nil map.
	if env.Data == nil {
		return nil, fmt.Errorf("%w: missing data field", ErrCorruptEntry)
	}
	if env.CachedAt == "" {
		return nil, fmt.Errorf("%w: missing cached_at field", ErrCorruptEntry)
	}
	return &env, nil
}
