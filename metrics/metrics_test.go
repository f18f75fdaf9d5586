package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecorders(t *testing.T) {
	m := New()

	m.RecordExtraction("success", 2*time.Second)
	m.RecordExtraction("timeout", time.Second)
	m.RecordProbe(true)
	m.RecordProbe(false)
	m.RecordProbe(false)
	m.RecordSVGVerdict(true)
	m.RecordSeedItem(true)
	m.RecordSeedItem(false)

	body := scrape(t, m)
	assert.Contains(t, body, `brandseed_extractions_total{outcome="success"} 1`)
	assert.Contains(t, body, `brandseed_extractions_total{outcome="timeout"} 1`)
	assert.Contains(t, body, `brandseed_probes_total{result="miss"} 2`)
	assert.Contains(t, body, `brandseed_svg_classifications_total{verdict="text"} 1`)
	assert.Contains(t, body, `brandseed_seed_items_total{status="created"} 1`)
	assert.Contains(t, body, `brandseed_seed_items_total{status="failed"} 1`)
	assert.Contains(t, body, "brandseed_extraction_duration_seconds_count 2")
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordExtraction("success", time.Second)
		m.RecordProbe(true)
		m.RecordSVGVerdict(false)
		m.RecordSeedItem(true)
	})

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordProbe(true)

	assert.Contains(t, scrape(t, m), "brandseed_probes_total")
}
