package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

// TestReviewsHealthy checks the health endpoints.
func TestReviewsHealthy(t *testing.T) {
	skipIfNotRunning(t)

	status, _ := httpGet(t, baseURL()+"/health/live")
	if status != http.StatusOK {
		t.Errorf("liveness returned %d, want 200", status)
	}

	status, _ = httpGet(t, baseURL()+"/health/ready")
	if status != http.StatusOK {
		t.Errorf("readiness returned %d, want 200", status)
	}
}

// TestReviewLifecycle walks the full write/read path: create a review, find
// it in the listing, mark it helpful, report it, and confirm it disappears
// from listings while still counting toward the metadata.
func TestReviewLifecycle(t *testing.T) {
	skipIfNotRunning(t)

	// A product id far outside the seeded range keeps runs independent.
	productID := time.Now().UnixNano() % 1_000_000_000

	status, body := httpPost(t, baseURL()+"/reviews", map[string]any{
		"product_id": productID,
		"rating":     5,
		"summary":    "Integration test review",
		"body":       "Created by the integration suite.",
		"recommend":  true,
		"name":       "integration",
		"email":      "integration@test.example.com",
	})
	if status != http.StatusCreated {
		t.Fatalf("create review returned %d: %v", status, body)
	}

	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("create response missing data: %v", body)
	}
	reviewID := int64(data["review_id"].(float64))

	listURL := fmt.Sprintf("%s/reviews?product_id=%d", baseURL(), productID)
	status, body = httpGet(t, listURL)
	if status != http.StatusOK {
		t.Fatalf("list returned %d: %v", status, body)
	}
	if !listingContains(body, reviewID) {
		t.Fatalf("new review %d not in listing: %v", reviewID, body)
	}

	status = httpPut(t, fmt.Sprintf("%s/reviews/%d/helpful", baseURL(), reviewID))
	if status != http.StatusNoContent {
		t.Errorf("helpful returned %d, want 204", status)
	}

	status = httpPut(t, fmt.Sprintf("%s/reviews/%d/report", baseURL(), reviewID))
	if status != http.StatusNoContent {
		t.Errorf("report returned %d, want 204", status)
	}

	status, body = httpGet(t, listURL)
	if status != http.StatusOK {
		t.Fatalf("list after report returned %d", status)
	}
	if listingContains(body, reviewID) {
		t.Errorf("reported review %d still in listing: %v", reviewID, body)
	}

	status, body = httpGet(t, fmt.Sprintf("%s/reviews/meta?product_id=%d", baseURL(), productID))
	if status != http.StatusOK {
		t.Fatalf("meta returned %d", status)
	}
	meta, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("meta response missing data: %v", body)
	}
	ratings, _ := meta["ratings"].(map[string]any)
	if _, ok := ratings["5"]; !ok {
		t.Errorf("reported review should still count in metadata ratings: %v", meta)
	}
}

// TestUnknownReviewReturns404 exercises the not-found path.
func TestUnknownReviewReturns404(t *testing.T) {
	skipIfNotRunning(t)

	status := httpPut(t, baseURL()+"/reviews/999999999/helpful")
	if status != http.StatusNotFound {
		t.Errorf("helpful on unknown review returned %d, want 404", status)
	}
}

// listingContains reports whether a listing response includes the review id.
func listingContains(body map[string]any, reviewID int64) bool {
	data, ok := body["data"].(map[string]any)
	if !ok {
		return false
	}
	results, ok := data["results"].([]any)
	if !ok {
		return false
	}
	for _, raw := range results {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := entry["review_id"].(float64); ok && int64(id) == reviewID {
			return true
		}
	}
	return false
}
