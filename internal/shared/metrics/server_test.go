package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestHealthzRunsChecksInOrder(t *testing.T) {
	var called []string
	ok := func(name string) Check {
		return Check{Name: name, Fn: func(context.Context) error { called = append(called, name); return nil }}
	}
	h := Handler(prometheus.NewRegistry(), ok("postgres"), ok("redis"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if strings.Join(called, ",") != "postgres,redis" {
		t.Errorf("Expected checks in order, got %v", called)
	}
}

func TestHealthzReportsFailingDependency(t *testing.T) {
	h := Handler(prometheus.NewRegistry(),
		Check{Name: "postgres", Fn: func(context.Context) error { return nil }},
		Check{Name: "kafka", Fn: func(context.Context) error { return errors.New("no brokers") }},
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "kafka not healthy") {
		t.Errorf("Expected failing dependency in body, got %q", rec.Body.String())
	}
}

func TestMetricsExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "chuti_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	rec := httptest.NewRecorder()
	NewServer("0", reg).Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "chuti_test_total 1") {
		t.Errorf("Expected counter in exposition, got %q", rec.Body.String())
	}
}
