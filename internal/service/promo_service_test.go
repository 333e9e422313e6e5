package service

import (
	"errors"
	"testing"

	"github.com/mouse-haven/internal/i18n"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestPromoResolve(t *testing.T) {
	cart, m := newTestCartService(t, nil)
	promos := NewPromoService(cart, nil, m)

	cases := []struct {
		code     string
		subtotal string
		want     string
		wantCode string
	}{
		{code: "WELCOME10", subtotal: "100", want: "10.00", wantCode: "WELCOME10"},
		{code: "FLAT50", subtotal: "30", want: "30.00", wantCode: "FLAT50"},
		{code: "FLAT50", subtotal: "80", want: "50.00", wantCode: "FLAT50"},
		{code: "save20", subtotal: "50", want: "10.00", wantCode: "save20"},
		{code: "  welcome10 ", subtotal: "55", want: "5.50", wantCode: "welcome10"},
	}
	for _, tc := range cases {
		promo, err := promos.Resolve(tc.code, decimal.RequireFromString(tc.subtotal))
		if err != nil {
			t.Fatalf("resolve %q failed: %v", tc.code, err)
		}
		if promo.Discount.StringFixed(2) != tc.want {
			t.Fatalf("resolve %q@%s want %s got %s", tc.code, tc.subtotal, tc.want, promo.Discount.StringFixed(2))
		}
		if promo.Code != tc.wantCode {
			t.Fatalf("resolve %q want code %s got %s", tc.code, tc.wantCode, promo.Code)
		}
	}
}

func TestPromoResolveErrors(t *testing.T) {
	cart, m := newTestCartService(t, nil)
	promos := NewPromoService(cart, nil, m)

	if _, err := promos.Resolve("BOGUS", decimal.NewFromInt(100)); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
	if _, err := promos.Resolve("WELCOME10", decimal.Zero); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	// 先查码再校验小计
	if _, err := promos.Resolve("BOGUS", decimal.Zero); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("unknown code on empty cart should be ErrInvalidCode, got %v", err)
	}
}

func TestPromoApplyPersistsAndReplacesPrevious(t *testing.T) {
	cart, m := newTestCartService(t, nil)
	promos := NewPromoService(cart, nil, m)
	ctx := sessionCtx("promo-apply")

	mustAdd(t, cart, ctx, 4)

	app, err := promos.Apply(ctx, "welcome10")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if app.Message != "Promo code applied: -$10.00" {
		t.Fatalf("unexpected message: %s", app.Message)
	}
	if app.Totals.Total.StringFixed(2) != "95.99" {
		t.Fatalf("total want 95.99 got %s", app.Totals.Total.StringFixed(2))
	}

	if _, err := promos.Apply(ctx, "FLAT50"); err != nil {
		t.Fatalf("second apply failed: %v", err)
	}
	active := cart.ActivePromo(ctx)
	if active == nil || active.Code != "FLAT50" || active.Discount.StringFixed(2) != "50.00" {
		t.Fatalf("active promo should be replaced, got %+v", active)
	}
	if got := testutil.ToFloat64(m.PromoOutcomes.WithLabelValues("applied")); got != 2 {
		t.Fatalf("applied counter want 2 got %v", got)
	}
}

func TestPromoApplyLocalizedMessage(t *testing.T) {
	cart, m := newTestCartService(t, nil)
	promos := NewPromoService(cart, nil, m)
	ctx := WithLocale(sessionCtx("promo-zh"), "zh-CN")
	mustAdd(t, cart, ctx, 4)

	app, err := promos.Apply(ctx, "SAVE20")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if app.Message != i18n.Sprintf(i18n.LocaleZHCN, "notice.promo_discount", "20.00") {
		t.Fatalf("unexpected localized message: %s", app.Message)
	}
}

func TestPromoApplyRejections(t *testing.T) {
	cart, m := newTestCartService(t, nil)
	promos := NewPromoService(cart, nil, m)
	ctx := sessionCtx("promo-reject")

	if _, err := promos.Apply(ctx, "   "); !errors.Is(err, ErrPromoCodeRequired) {
		t.Fatalf("expected ErrPromoCodeRequired, got %v", err)
	}
	if _, err := promos.Apply(ctx, "WELCOME10"); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	mustAdd(t, cart, ctx, 1)
	if _, err := promos.Apply(ctx, "BOGUS"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
	if cart.ActivePromo(ctx) != nil {
		t.Fatalf("rejected promo must not be persisted")
	}
	if got := testutil.ToFloat64(m.PromoOutcomes.WithLabelValues("invalid")); got != 1 {
		t.Fatalf("invalid counter want 1 got %v", got)
	}
}

func TestPromoDiscountIsNotRescaledAfterCartChanges(t *testing.T) {
	cart, m := newTestCartService(t, nil)
	promos := NewPromoService(cart, nil, m)
	ctx := sessionCtx("promo-fixed")

	mustAdd(t, cart, ctx, 1, 1, 2)
	if _, err := promos.Apply(ctx, "WELCOME10"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	mustAdd(t, cart, ctx, 4)

	view := cart.View(ctx)
	if view.Totals.Subtotal.StringFixed(2) != "155.00" {
		t.Fatalf("subtotal want 155.00 got %s", view.Totals.Subtotal.StringFixed(2))
	}
	if view.Totals.Discount.StringFixed(2) != "5.50" {
		t.Fatalf("discount should stay 5.50, got %s", view.Totals.Discount.StringFixed(2))
	}
	if view.Totals.Total.StringFixed(2) != "155.49" {
		t.Fatalf("total want 155.49 got %s", view.Totals.Total.StringFixed(2))
	}
}

func TestPromoFixedDiscountCanDriveTotalNegative(t *testing.T) {
	cart, m := newTestCartService(t, nil)
	promos := NewPromoService(cart, nil, m)
	ctx := sessionCtx("promo-negative")

	mustAdd(t, cart, ctx, 1, 1, 1)
	if _, err := promos.Apply(ctx, "FLAT50"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if err := cart.ChangeQuantity(ctx, 1, -2); err != nil {
		t.Fatalf("change quantity failed: %v", err)
	}
	view := cart.View(ctx)
	if view.Totals.Total.StringFixed(2) != "-24.01" {
		t.Fatalf("total want -24.01 got %s", view.Totals.Total.StringFixed(2))
	}
}

func TestPromoApplyPersistsCodeAsEntered(t *testing.T) {
	cart, m := newTestCartService(t, nil)
	promos := NewPromoService(cart, nil, m)
	ctx := sessionCtx("code-as-entered")
	mustAdd(t, cart, ctx, 1)

	if _, err := promos.Apply(ctx, "  save20 "); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	active := cart.ActivePromo(ctx)
	if active == nil || active.Code != "save20" || active.Discount.StringFixed(2) != "4.00" {
		t.Fatalf("promo should keep the entered code, got %+v", active)
	}
}
