package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestObserveAndScrape(t *testing.T) {
	m := NewHTTPMetrics()
	m.Observe(http.MethodGet, "/api/catalog/{workType}", 200, 15*time.Millisecond)
	m.Observe(http.MethodGet, "/api/catalog/{workType}", 200, 5*time.Millisecond)
	m.Observe(http.MethodPost, "", 400, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `http_requests_total{method="GET",route="/api/catalog/{workType}",status="200"} 2`) {
		t.Fatalf("expected counted GET requests in scrape output:\n%s", body)
	}
	if !strings.Contains(body, `route="unmatched"`) {
		t.Fatalf("expected empty route to normalize to unmatched:\n%s", body)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe(http.MethodGet, "/x", 200, time.Millisecond)
	if m.Handler() == nil {
		t.Fatal("expected fallback handler")
	}
}
