package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

// Load generator for a running cache gateway. Point it at an instance with
// a live Redis behind it; it mixes writes and reads over a bounded keyspace
// so reads hit both present and expired keys.
func main() {
	target := flag.String("target", "http://localhost:8000", "Base URL of the running gateway")
	duration := flag.Duration("duration", 10*time.Second, "Duration of the test")
	rate := flag.Int("rate", 100, "Requests per second")
	keyspace := flag.Int("keyspace", 500, "Number of distinct keys to spread load over")
	writeRatio := flag.Int("write-ratio", 30, "Percentage of requests that are writes (0-100)")
	ttl := flag.Int("ttl", 60, "TTL in seconds for benchmark writes")
	flag.Parse()

	waitForApp(*target + "/api/v1/health")

	fmt.Printf("Running cache benchmark: %s duration, %d req/s, %d%% writes, keyspace %d\n",
		*duration, *rate, *writeRatio, *keyspace)

	storeURL := *target + "/api/v1/cache"

	targeter := func(t *vegeta.Target) error {
		key := fmt.Sprintf("bench:%d", rand.Intn(*keyspace))

		if rand.Intn(100) < *writeRatio {
			body, err := json.Marshal(map[string]interface{}{
				"key":         key,
				"ttl_seconds": *ttl,
				"data": map[string]interface{}{
					"payload": fmt.Sprintf("value-%d", rand.Int63()),
					"written": time.Now().UnixNano(),
				},
			})
			if err != nil {
				return err
			}
			t.Method = "POST"
			t.URL = storeURL
			t.Body = body
			t.Header = http.Header{"Content-Type": []string{"application/json"}}
			return nil
		}

		t.Method = "GET"
		t.URL = storeURL + "/" + key
		t.Header = http.Header{}
		return nil
	}

	attacker := vegeta.NewAttacker(vegeta.KeepAlive(true))
	var metrics vegeta.Metrics

	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: *rate, Per: time.Second}, *duration, "CacheBenchmark") {
		// Reads race writes over the keyspace, so misses are expected traffic.
		if res.Code == http.StatusNotFound {
			res.Code = http.StatusOK
			res.Error = ""
		}
		metrics.Add(res)
	}
	metrics.Close()

	fmt.Println("--------------------------------------------------")
	fmt.Println("99th percentile: ", metrics.Latencies.P99)
	fmt.Println("Mean:            ", metrics.Latencies.Mean)
	fmt.Println("Max:             ", metrics.Latencies.Max)
	fmt.Printf("Success:         %.2f%%\n", metrics.Success*100)
	fmt.Printf("Throughput:      %.2f req/s\n", metrics.Throughput)
	fmt.Println("--------------------------------------------------")

	if len(metrics.Errors) > 0 {
		fmt.Println("Error Set (first 5 unique):")

		uniqueErrors := make(map[string]bool)
		count := 0
		for _, msg := range metrics.Errors {
			if !uniqueErrors[msg] && count < 5 {
				fmt.Println(msg)

				uniqueErrors[msg] = true
				count++
			}
		}
	}
}

func waitForApp(url string) {
	for i := 0; i < 20; i++ {
		resp, err := http.Get(url)
		if err == nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		time.Sleep(500 * time.Millisecond)
	}
	log.Fatal("Gateway not reachable, start it before benchmarking")
}
