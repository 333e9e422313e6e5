package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestResolveLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := map[string]string{
		"":                       LocaleEN,
		"zh-CN,zh;q=0.9,en;q=0.8": LocaleZHCN,
		"en-US,en;q=0.9":          LocaleEN,
		"fr-FR":                   LocaleEN,
	}
	for header, want := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			c.Request.Header.Set("Accept-Language", header)
		}
		if got := ResolveLocale(c); got != want {
			t.Fatalf("header %q want %s got %s", header, want, got)
		}
	}
}

func TestTFallbacks(t *testing.T) {
	if got := T(LocaleZHCN, "error.cart_empty"); got != "购物车为空" {
		t.Fatalf("unexpected zh message: %s", got)
	}
	if got := T("fr", "error.cart_empty"); got != "Cart is empty" {
		t.Fatalf("unknown locale should fall back to en, got %s", got)
	}
	if got := T(LocaleEN, "error.does_not_exist"); got != "error.does_not_exist" {
		t.Fatalf("missing key should return key, got %s", got)
	}
}

func TestSprintfPromoDiscount(t *testing.T) {
	if got := Sprintf(LocaleEN, "notice.promo_discount", "10.00"); got != "Promo code applied: -$10.00" {
		t.Fatalf("unexpected message: %s", got)
	}
}
