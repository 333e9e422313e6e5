package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewCanBeCalledTwice(t *testing.T) {
	_ = New()
	_ = New()
}

func TestCountersIncrement(t *testing.T) {
	m := New()
	m.CartMutation("add")
	m.CartMutation("add")
	m.PromoOutcome("invalid_code")
	m.CatalogRefreshed("ok", 7)

	if got := testutil.ToFloat64(m.CartMutations.WithLabelValues("add")); got != 2 {
		t.Fatalf("add mutations want 2 got %v", got)
	}
	if got := testutil.ToFloat64(m.PromoOutcomes.WithLabelValues("invalid_code")); got != 1 {
		t.Fatalf("invalid promo want 1 got %v", got)
	}
	if got := testutil.ToFloat64(m.CatalogSize); got != 7 {
		t.Fatalf("catalog size want 7 got %v", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.CartMutation("add")
	m.ObserveRequest("/x", 200, 1)
	m.CheckoutPlaced()
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveRequest("/api/v1/cart", 200, 3)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "storefront_http_requests_total") {
		t.Fatalf("expected request counter in output")
	}
}
