package app_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/artpar/billgate/adapters/clock"
	"github.com/artpar/billgate/adapters/idgen"
	"github.com/artpar/billgate/adapters/memory"
	"github.com/artpar/billgate/adapters/metrics"
	"github.com/artpar/billgate/app"
	"github.com/artpar/billgate/domain/promo"
)

func newPromoService(t *testing.T) (*app.PromoService, *memory.PromoStore) {
	t.Helper()
	store := memory.NewPromoStore()
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	svc := app.NewPromoService(
		store,
		clock.NewFake(testTime),
		idgen.NewSequential("use_"),
		m,
		zerolog.Nop(),
	)
	return svc, store
}

func TestPromoService_Redeem(t *testing.T) {
	svc, store := newPromoService(t)
	ctx := context.Background()

	code := promo.Code{
		ID: "promo_1", Code: "LAUNCH20", Type: promo.TypePercentage, Value: 20,
		Active: true, CreatedAt: testTime,
	}
	if err := store.Create(ctx, code); err != nil {
		t.Fatalf("create: %v", err)
	}

	r, err := svc.Redeem(ctx, "LAUNCH20", "cus_1", 10000, "usd")
	if err != nil {
		t.Fatalf("Redeem error: %v", err)
	}
	if !r.Valid {
		t.Fatalf("reason = %q, want valid", r.Reason)
	}
	if r.Discount != 2000 {
		t.Errorf("discount = %d, want 2000", r.Discount)
	}

	got, err := store.GetByCode(ctx, "LAUNCH20")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UsedCount != 1 {
		t.Errorf("used count = %d, want 1", got.UsedCount)
	}
	usages, err := store.UsageByCustomer(ctx, "cus_1")
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usages) != 1 || usages[0].DiscountAmount != 2000 {
		t.Errorf("usages = %+v", usages)
	}
}

func TestPromoService_Redeem_UnknownCode(t *testing.T) {
	svc, _ := newPromoService(t)

	r, err := svc.Redeem(context.Background(), "NOPE", "cus_1", 1000, "usd")
	if err != nil {
		t.Fatalf("Redeem error: %v", err)
	}
	if r.Valid {
		t.Fatal("unknown code accepted")
	}
	if r.Reason != promo.ReasonNotFound {
		t.Errorf("reason = %q, want %q", r.Reason, promo.ReasonNotFound)
	}
}

func TestPromoService_Redeem_NewCustomersOnly(t *testing.T) {
	svc, store := newPromoService(t)
	ctx := context.Background()

	first := promo.Code{
		ID: "promo_1", Code: "ANY", Type: promo.TypeFixedAmount, Value: 100,
		Active: true, CreatedAt: testTime,
	}
	newOnly := promo.Code{
		ID: "promo_2", Code: "FIRSTBUY", Type: promo.TypeFixedAmount, Value: 500,
		NewCustomersOnly: true, Active: true, CreatedAt: testTime,
	}
	for _, c := range []promo.Code{first, newOnly} {
		if err := store.Create(ctx, c); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	// First purchase with any code marks the customer as returning.
	if _, err := svc.Redeem(ctx, "ANY", "cus_1", 1000, "usd"); err != nil {
		t.Fatalf("Redeem error: %v", err)
	}

	r, err := svc.Redeem(ctx, "FIRSTBUY", "cus_1", 1000, "usd")
	if err != nil {
		t.Fatalf("Redeem error: %v", err)
	}
	if r.Valid {
		t.Fatal("new-customers-only code accepted for returning customer")
	}
	if r.Reason != promo.ReasonNewCustomersOnly {
		t.Errorf("reason = %q, want %q", r.Reason, promo.ReasonNewCustomersOnly)
	}
}

func TestPromoService_Redeem_MaxUses(t *testing.T) {
	svc, store := newPromoService(t)
	ctx := context.Background()

	max := 1
	code := promo.Code{
		ID: "promo_1", Code: "ONEONLY", Type: promo.TypeFixedAmount, Value: 100,
		MaxUses: &max, Active: true, CreatedAt: testTime,
	}
	if err := store.Create(ctx, code); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Redeem(ctx, "ONEONLY", "cus_1", 1000, "usd"); err != nil {
		t.Fatalf("Redeem error: %v", err)
	}

	r, err := svc.Redeem(ctx, "ONEONLY", "cus_2", 1000, "usd")
	if err != nil {
		t.Fatalf("Redeem error: %v", err)
	}
	if r.Valid {
		t.Fatal("exhausted code accepted")
	}
	if r.Reason != promo.ReasonMaxUses {
		t.Errorf("reason = %q, want %q", r.Reason, promo.ReasonMaxUses)
	}
}

func TestPromoService_Preview_DoesNotRecord(t *testing.T) {
	svc, store := newPromoService(t)
	ctx := context.Background()

	code := promo.Code{
		ID: "promo_1", Code: "SAVE5", Type: promo.TypeFixedAmount, Value: 500,
		Active: true, CreatedAt: testTime,
	}
	if err := store.Create(ctx, code); err != nil {
		t.Fatalf("create: %v", err)
	}

	r, err := svc.Preview(ctx, "SAVE5", "cus_1", 300)
	if err != nil {
		t.Fatalf("Preview error: %v", err)
	}
	if !r.Valid || r.Discount != 300 {
		t.Errorf("got %+v, want valid discount capped at 300", r)
	}

	got, err := store.GetByCode(ctx, "SAVE5")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UsedCount != 0 {
		t.Errorf("used count = %d, want 0 after preview", got.UsedCount)
	}
}
