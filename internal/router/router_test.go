package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mouse-haven/internal/catalog"
	"github.com/mouse-haven/internal/config"
	"github.com/mouse-haven/internal/constants"
	"github.com/mouse-haven/internal/metrics"
	"github.com/mouse-haven/internal/models"
	"github.com/mouse-haven/internal/provider"
	"github.com/mouse-haven/internal/queue"
	"github.com/mouse-haven/internal/repository"
	"github.com/mouse-haven/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

type totalsView struct {
	Subtotal    string `json:"subtotal"`
	Shipping    string `json:"shipping"`
	Discount    string `json:"discount"`
	Total       string `json:"total"`
	HasDiscount bool   `json:"has_discount"`
}

type cartView struct {
	Items  []models.CartLineItem `json:"items"`
	Totals totalsView            `json:"totals"`
	Badge  int                   `json:"badge"`
}

func newTestContainer(t *testing.T) *provider.Container {
	t.Helper()
	cfg := &config.Config{}
	m := metrics.New()
	cat := catalog.NewStaticStore([]models.Product{
		{ID: 1, Name: "Viper Mini", Price: models.MustMoney("20.00"), Category: "wired"},
		{ID: 2, Name: "Pulsar X2", Price: models.MustMoney("15.00"), Category: "wireless"},
	})
	qc, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("queue client: %v", err)
	}
	shipping := service.NewShippingOptions(nil)
	cart := service.NewCartService(repository.NewMemoryStateStore(), cat, service.NewFlatRateShipping("5.99"), m)
	return &provider.Container{
		Config:          cfg,
		QueueClient:     qc,
		Metrics:         m,
		Catalog:         cat,
		ShippingOptions: shipping,
		CartService:     cart,
		PromoService:    service.NewPromoService(cart, nil, m),
		CheckoutService: service.NewCheckoutService(cart, shipping, qc, m),
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path, sid string, body interface{}) envelope {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sid != "" {
		req.Header.Set(constants.SessionHeader, sid)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s http status want 200 got %d", method, path, w.Code)
	}
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("%s %s unmarshal failed: %v body=%s", method, path, err, w.Body.String())
	}
	return resp
}

func decodeCart(t *testing.T, raw json.RawMessage) cartView {
	t.Helper()
	var view cartView
	if err := json.Unmarshal(raw, &view); err != nil {
		t.Fatalf("decode cart failed: %v", err)
	}
	return view
}

func TestCartPromoCheckoutFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := newTestContainer(t)
	r := SetupRouter(c.Config, c)
	sid := uuid.NewString()

	resp := doJSON(t, r, http.MethodPost, "/api/v1/cart/items", sid, map[string]uint{"product_id": 1})
	if resp.StatusCode != 0 {
		t.Fatalf("add item status_code want 0 got %d msg=%s", resp.StatusCode, resp.Msg)
	}
	doJSON(t, r, http.MethodPost, "/api/v1/cart/items", sid, map[string]uint{"product_id": 2})

	resp = doJSON(t, r, http.MethodGet, "/api/v1/cart", sid, nil)
	view := decodeCart(t, resp.Data)
	if view.Badge != 2 || len(view.Items) != 2 {
		t.Fatalf("cart want 2 lines badge 2, got %d lines badge %d", len(view.Items), view.Badge)
	}
	if view.Totals.Subtotal != "35.00" || view.Totals.Shipping != "5.99" || view.Totals.Total != "40.99" {
		t.Fatalf("unexpected drawer totals: %+v", view.Totals)
	}

	resp = doJSON(t, r, http.MethodPost, "/api/v1/cart/promo", sid, map[string]string{"code": "bogus"})
	if resp.StatusCode != 400 || resp.Msg != "Invalid promo code" {
		t.Fatalf("invalid promo want 400/Invalid promo code got %d/%s", resp.StatusCode, resp.Msg)
	}

	resp = doJSON(t, r, http.MethodPost, "/api/v1/cart/promo", sid, map[string]string{"code": " welcome10 "})
	if resp.StatusCode != 0 {
		t.Fatalf("apply promo failed: %d %s", resp.StatusCode, resp.Msg)
	}
	view = decodeCart(t, resp.Data)
	if view.Totals.Discount != "3.50" || view.Totals.Total != "37.49" || !view.Totals.HasDiscount {
		t.Fatalf("unexpected totals after promo: %+v", view.Totals)
	}

	resp = doJSON(t, r, http.MethodGet, "/api/v1/cart/checkout/review?shipping=express", sid, nil)
	var review struct {
		Totals totalsView `json:"totals"`
	}
	if err := json.Unmarshal(resp.Data, &review); err != nil {
		t.Fatalf("decode review failed: %v", err)
	}
	if review.Totals.Shipping != "12.99" || review.Totals.Total != "44.49" {
		t.Fatalf("unexpected review totals: %+v", review.Totals)
	}

	resp = doJSON(t, r, http.MethodPost, "/api/v1/cart/checkout", sid, map[string]string{"email": "bad", "shipping": "standard"})
	if resp.StatusCode != 400 {
		t.Fatalf("invalid email want 400 got %d", resp.StatusCode)
	}

	resp = doJSON(t, r, http.MethodPost, "/api/v1/cart/checkout", sid, map[string]string{"email": "Buyer@Example.com", "shipping": "standard"})
	if resp.StatusCode != 0 {
		t.Fatalf("checkout failed: %d %s", resp.StatusCode, resp.Msg)
	}
	var placed struct {
		Confirmation struct {
			Email  string     `json:"email"`
			Totals totalsView `json:"totals"`
		} `json:"confirmation"`
		Cart cartView `json:"cart"`
	}
	if err := json.Unmarshal(resp.Data, &placed); err != nil {
		t.Fatalf("decode checkout failed: %v", err)
	}
	if placed.Confirmation.Email != "buyer@example.com" || placed.Confirmation.Totals.Total != "37.49" {
		t.Fatalf("unexpected confirmation: %+v", placed.Confirmation)
	}
	if placed.Cart.Badge != 0 || len(placed.Cart.Items) != 0 || placed.Cart.Totals.Discount != "0.00" {
		t.Fatalf("cart should be cleared after checkout: %+v", placed.Cart)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := newTestContainer(t)
	r := SetupRouter(c.Config, c)

	first, second := uuid.NewString(), uuid.NewString()
	doJSON(t, r, http.MethodPost, "/api/v1/cart/items", first, map[string]uint{"product_id": 1})

	view := decodeCart(t, doJSON(t, r, http.MethodGet, "/api/v1/cart", second, nil).Data)
	if view.Badge != 0 {
		t.Fatalf("second session should see an empty cart, badge=%d", view.Badge)
	}
	view = decodeCart(t, doJSON(t, r, http.MethodGet, "/api/v1/cart", first, nil).Data)
	if view.Badge != 1 {
		t.Fatalf("first session badge want 1 got %d", view.Badge)
	}
}

func TestUnknownProductReturnsNotice(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := newTestContainer(t)
	r := SetupRouter(c.Config, c)

	resp := doJSON(t, r, http.MethodPost, "/api/v1/cart/items", uuid.NewString(), map[string]uint{"product_id": 99})
	if resp.StatusCode != 0 {
		t.Fatalf("unknown product should not be an error, got %d", resp.StatusCode)
	}
	var body struct {
		Badge  int `json:"badge"`
		Notice struct {
			Type string `json:"type"`
		} `json:"notice"`
	}
	if err := json.Unmarshal(resp.Data, &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.Badge != 0 || body.Notice.Type != constants.NoticeError {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestPublicCatalogAndHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := newTestContainer(t)
	r := SetupRouter(c.Config, c)

	resp := doJSON(t, r, http.MethodGet, "/api/v1/public/products?category=wired", "", nil)
	var list struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(resp.Data, &list); err != nil {
		t.Fatalf("decode products failed: %v", err)
	}
	if list.Total != 1 {
		t.Fatalf("wired products want 1 got %d", list.Total)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if !strings.Contains(w.Body.String(), `"products":2`) || !strings.Contains(w.Body.String(), `"catalog_updated_at"`) {
		t.Fatalf("unexpected health body: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Fatalf("metrics should expose request counter")
	}
}

func TestUpdateCartItemDelta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := newTestContainer(t)
	r := SetupRouter(c.Config, c)
	sid := uuid.NewString()

	doJSON(t, r, http.MethodPost, "/api/v1/cart/items", sid, map[string]uint{"product_id": 1})

	resp := doJSON(t, r, http.MethodPatch, "/api/v1/cart/items/1", sid, map[string]int{"delta": 0})
	if resp.StatusCode != 0 {
		t.Fatalf("zero delta should be accepted, got %d %s", resp.StatusCode, resp.Msg)
	}
	if view := decodeCart(t, resp.Data); view.Badge != 1 {
		t.Fatalf("zero delta should keep quantity, badge=%d", view.Badge)
	}

	resp = doJSON(t, r, http.MethodPatch, "/api/v1/cart/items/1", sid, map[string]int{"delta": 2})
	if view := decodeCart(t, resp.Data); view.Badge != 3 {
		t.Fatalf("delta 2 should raise badge to 3, got %d", view.Badge)
	}

	resp = doJSON(t, r, http.MethodPatch, "/api/v1/cart/items/1", sid, map[string]string{})
	if resp.StatusCode != 400 {
		t.Fatalf("missing delta want 400 got %d", resp.StatusCode)
	}

	resp = doJSON(t, r, http.MethodPatch, "/api/v1/cart/items/1", sid, map[string]int{"delta": -3})
	if view := decodeCart(t, resp.Data); view.Badge != 0 || len(view.Items) != 0 {
		t.Fatalf("delta to zero should remove the line: %+v", view)
	}
}
