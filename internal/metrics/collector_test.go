package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/fadvshim/fadvshim/internal/advisory"
)

func TestCollectorCounters(t *testing.T) {
	c := NewCollector(nil)

	c.HintIssued(advisory.AdviceNoReuse)
	c.HintIssued(advisory.AdviceDontNeed)
	c.HintIssued(advisory.AdviceDontNeed)
	c.HintSkipped(advisory.SkipTooLarge)
	c.RecordOperation("open")
	c.RecordFallback("read")

	if got := testutil.ToFloat64(c.hintsIssued.WithLabelValues("noreuse")); got != 1 {
		t.Errorf("noreuse hints = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.hintsIssued.WithLabelValues("dontneed")); got != 2 {
		t.Errorf("dontneed hints = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.hintsSkipped.WithLabelValues(advisory.SkipTooLarge)); got != 1 {
		t.Errorf("too_large skips = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.operations.WithLabelValues("open")); got != 1 {
		t.Errorf("open operations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.fallbacks.WithLabelValues("read")); got != 1 {
		t.Errorf("read fallbacks = %v, want 1", got)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	c := NewCollector(&Config{Enabled: true, Namespace: "fadvshim"})
	c.HintIssued(advisory.AdviceNoReuse)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "fadvshim_hints_total") {
		t.Error("expected fadvshim_hints_total in scrape output")
	}
}

func TestDisabledCollectorIsNoOp(t *testing.T) {
	c := NewCollector(&Config{Enabled: false})

	// None of these may panic.
	c.HintIssued(advisory.AdviceNoReuse)
	c.HintSkipped(advisory.SkipNotRegular)
	c.RecordOperation("close")
	c.RecordFallback("close")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("disabled collector handler status = %d, want 404", rec.Code)
	}
}

func TestNilCollectorIsNoOp(t *testing.T) {
	var c *Collector

	c.HintIssued(advisory.AdviceDontNeed)
	c.HintSkipped(advisory.SkipStatFailed)
	c.RecordOperation("read")
	c.RecordFallback("open")
	_ = c.Handler()
}
