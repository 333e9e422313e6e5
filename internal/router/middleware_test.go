package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mouse-haven/internal/config"
	"github.com/mouse-haven/internal/constants"
	"github.com/mouse-haven/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://shop.example.com", []string{"https://shop.example.com"}, false)
	if got != "https://shop.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://shop.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORSMiddleware(config.CORSConfig{}))
	r.POST("/api/v1/cart/items", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/cart/items", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status want 204 got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), constants.SessionHeader) {
		t.Fatalf("session header should be allowed, got %s", w.Header().Get("Access-Control-Allow-Headers"))
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if strings.TrimSpace(w2.Header().Get(requestIDHeader)) == "" {
		t.Fatalf("generated request id should not be empty")
	}
}

func newSessionEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionMiddleware(config.SessionConfig{CookieName: "sid", MaxAgeSeconds: 3600}))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.SessionContextKey))
	})
	return r
}

func TestSessionMiddlewareIssuesNewSession(t *testing.T) {
	r := newSessionEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	sid := w.Body.String()
	if _, err := uuid.Parse(sid); err != nil {
		t.Fatalf("issued session should be a uuid, got %q", sid)
	}
	if w.Header().Get(constants.SessionHeader) != sid {
		t.Fatalf("session header should echo issued id")
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), "sid="+sid) {
		t.Fatalf("session cookie should be set, got %s", w.Header().Get("Set-Cookie"))
	}
}

func TestSessionMiddlewareReusesHeaderAndCookie(t *testing.T) {
	r := newSessionEngine()
	known := uuid.NewString()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(constants.SessionHeader, known)
	r.ServeHTTP(w, req)
	if w.Body.String() != known {
		t.Fatalf("header session want %s got %s", known, w.Body.String())
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req2.AddCookie(&http.Cookie{Name: "sid", Value: known})
	r.ServeHTTP(w2, req2)
	if w2.Body.String() != known {
		t.Fatalf("cookie session want %s got %s", known, w2.Body.String())
	}
	if w2.Header().Get("Set-Cookie") != "" {
		t.Fatalf("existing cookie should not be re-issued")
	}
}

func TestSessionMiddlewareRejectsMalformedID(t *testing.T) {
	r := newSessionEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(constants.SessionHeader, "../../etc/passwd")
	r.ServeHTTP(w, req)
	if w.Body.String() == "../../etc/passwd" {
		t.Fatalf("malformed session id must be replaced")
	}
	if _, err := uuid.Parse(w.Body.String()); err != nil {
		t.Fatalf("replacement should be a uuid, got %q", w.Body.String())
	}
}

func TestMetricsMiddlewareRecordsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New()

	r := gin.New()
	r.Use(MetricsMiddleware(m))
	r.GET("/items/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/2", nil))

	if got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/items/:id", "200")); got != 2 {
		t.Fatalf("request counter want 2 got %v", got)
	}
}
