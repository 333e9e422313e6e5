package service

import (
	"context"
	"sync"
	"testing"

	"github.com/mouse-haven/internal/catalog"
	"github.com/mouse-haven/internal/metrics"
	"github.com/mouse-haven/internal/models"
	"github.com/mouse-haven/internal/queue"
	"github.com/mouse-haven/internal/repository"

	"github.com/hibiken/asynq"
)

func testCatalog() *catalog.Store {
	return catalog.NewStaticStore([]models.Product{
		{ID: 1, Name: "Viper Mini", Price: models.MustMoney("20.00"), Image: "viper.png", Category: "wired"},
		{ID: 2, Name: "Pulsar X2", Price: models.MustMoney("15.00"), Image: "x2.png", Category: "wireless"},
		{ID: 3, Name: "G Pro", Price: models.MustMoney("30.00"), Image: "gpro.png", Category: "wireless"},
		{ID: 4, Name: "Orochi", Price: models.MustMoney("100.00"), Image: "orochi.png", Category: "wireless"},
	})
}

func newTestCartService(t *testing.T, store repository.StateStore) (*CartService, *metrics.Metrics) {
	t.Helper()
	if store == nil {
		store = repository.NewMemoryStateStore()
	}
	m := metrics.New()
	return NewCartService(store, testCatalog(), NewFlatRateShipping("5.99"), m), m
}

func sessionCtx(id string) context.Context {
	return WithSessionID(context.Background(), id)
}

func mustAdd(t *testing.T, svc *CartService, ctx context.Context, ids ...uint) {
	t.Helper()
	for _, id := range ids {
		ok, err := svc.AddItem(ctx, id)
		if err != nil {
			t.Fatalf("add item %d failed: %v", id, err)
		}
		if !ok {
			t.Fatalf("add item %d returned not found", id)
		}
	}
}

type recordingEnqueuer struct {
	mu       sync.Mutex
	payloads []queue.CheckoutConfirmationPayload
	err      error
}

func (r *recordingEnqueuer) EnqueueCheckoutConfirmation(payload queue.CheckoutConfirmationPayload, _ ...asynq.Option) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, payload)
	return r.err
}
