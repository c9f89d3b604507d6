package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/nulzo/cache-gateway-api/pkg/api"
	"github.com/nulzo/cache-gateway-api/pkg/client"
)

// Seeds a running gateway with sample entries for manual poking around.
func main() {
	target := flag.String("target", "http://localhost:8000", "Base URL of the running gateway")
	count := flag.Int("count", 10, "Number of sample entries to create")
	ttl := flag.Int("ttl", 3600, "TTL in seconds for seeded entries")
	flag.Parse()

	c := client.New(*target)
	ctx := context.Background()

	health, err := c.Health(ctx)
	if err != nil {
		log.Fatalf("Gateway not reachable: %v", err)
	}
	if health.Status != "healthy" {
		log.Fatalf("Gateway unhealthy: %s", health.Error)
	}

	items := make([]api.CacheItem, 0, *count)
	ttlSeconds := *ttl
	for i := 0; i < *count; i++ {
		items = append(items, api.CacheItem{
			Key:        fmt.Sprintf("seed:session:%s", uuid.New().String()),
			TTLSeconds: &ttlSeconds,
			Data: map[string]interface{}{
				"index":      i,
				"account":    fmt.Sprintf("ACCT%04d", i),
				"created_at": time.Now().UTC().Format(time.RFC3339),
			},
		})
	}

	resp, err := c.StoreBulk(ctx, items)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("\nSuccessfully seeded %d entries!\n", len(resp.Keys))
	for _, key := range resp.Keys {
		fmt.Printf("  %s\n", key)
	}
	fmt.Printf("\nList them with: curl '%s/api/v1/cache?pattern=seed:*'\n", *target)
}
