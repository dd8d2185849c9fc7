package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	defaultBaseURL = "http://localhost:8080"
	totalRequests  = 50
	duplicateKeys  = 10
)

type itemPayload struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Category string `json:"category"`
}

func main() {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := &http.Client{Timeout: 10 * time.Second}

	// Fresh users so reruns start from an empty inventory
	owner := "stress-" + uuid.NewString()[:8]
	other := "stress-" + uuid.NewString()[:8]
	ownerToken := registerAndLogin(client, baseURL, owner)
	otherToken := registerAndLogin(client, baseURL, other)

	// Counters
	var successCount atomic.Int32
	var conflictCount atomic.Int32
	var failCount atomic.Int32

	// Spawn concurrent creates; the first duplicateKeys requests are sent twice
	// with the same Idempotency-Key.
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		key := uuid.NewString()
		sends := 1
		if i < duplicateKeys {
			sends = 2
		}

		for s := 0; s < sends; s++ {
			wg.Add(1)
			go func(n int, key string) {
				defer wg.Done()

				status := createItem(client, baseURL, ownerToken, key, itemPayload{
					Name:     fmt.Sprintf("item-%d", n),
					Quantity: n,
					Price:    "9.99",
					Category: "stress",
				})
				switch status {
				case http.StatusCreated:
					successCount.Add(1)
				case http.StatusConflict:
					conflictCount.Add(1)
				default:
					failCount.Add(1)
				}
			}(i, key)
		}
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	conflicts := conflictCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Distinct Requests: %d\n", totalRequests)
	fmt.Printf("Replayed Keys:     %d\n", duplicateKeys)
	fmt.Printf("Created:           %d\n", success)
	fmt.Printf("Conflicts:         %d\n", conflicts)
	fmt.Printf("Failed:            %d\n", fail)
	fmt.Printf("Duration:          %v\n", elapsed)
	fmt.Println("==========================================")

	// Without Redis the server ignores Idempotency-Key and every send succeeds.
	switch {
	case success == totalRequests && conflicts == duplicateKeys:
		fmt.Println("PASS: every key created exactly one item")
	case success == totalRequests+duplicateKeys && conflicts == 0:
		fmt.Println("PASS: idempotency disabled, every request created an item")
	default:
		fmt.Printf("FAIL: unexpected created/conflict split %d/%d\n", success, conflicts)
	}

	ownerItems := listItems(client, baseURL, ownerToken)
	otherItems := listItems(client, baseURL, otherToken)
	fmt.Printf("Owner Items:       %d\n", ownerItems)
	fmt.Printf("Other User Items:  %d\n", otherItems)

	if ownerItems == int(success) {
		fmt.Println("PASS: list matches created items")
	} else {
		fmt.Printf("FAIL: expected %d listed items, got %d\n", success, ownerItems)
	}
	if otherItems == 0 {
		fmt.Println("PASS: items are not visible to other users")
	} else {
		fmt.Printf("FAIL: other user sees %d items\n", otherItems)
	}
}

func registerAndLogin(client *http.Client, baseURL, username string) string {
	creds := map[string]string{"username": username, "password": "stress-pass", "email": username + "@example.com"}

	resp := doJSON(client, http.MethodPost, baseURL+"/register", "", "", creds)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		log.Fatalf("register %s: status %d", username, resp.StatusCode)
	}

	resp = doJSON(client, http.MethodPost, baseURL+"/login", "", "", creds)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("login %s: status %d", username, resp.StatusCode)
	}

	var tokens struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		log.Fatalf("decode login response: %v", err)
	}
	return tokens.Access
}

func createItem(client *http.Client, baseURL, token, key string, item itemPayload) int {
	resp := doJSON(client, http.MethodPost, baseURL+"/inventory/create", token, key, item)
	resp.Body.Close()
	return resp.StatusCode
}

func listItems(client *http.Client, baseURL, token string) int {
	resp := doJSON(client, http.MethodGet, baseURL+"/inventory", token, "", nil)
	defer resp.Body.Close()

	var items []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		log.Fatalf("decode list response: %v", err)
	}
	return len(items)
}

func doJSON(client *http.Client, method, url, token, idempotencyKey string, body any) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			log.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		log.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}
