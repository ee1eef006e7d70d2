package sqlite_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/artpar/billgate/adapters/sqlite"
	"github.com/artpar/billgate/domain/checkout"
	"github.com/artpar/billgate/domain/invoice"
	"github.com/artpar/billgate/domain/payment"
	"github.com/artpar/billgate/domain/payout"
	"github.com/artpar/billgate/domain/promo"
	"github.com/artpar/billgate/ports"
)

func setupTestDB(t *testing.T) (*sqlite.DB, func()) {
	t.Helper()

	// Create temp file for test database
	f, err := os.CreateTemp("", "billgate-test-*.db")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	path := f.Name()
	f.Close()

	db, err := sqlite.Open(path)
	if err != nil {
		os.Remove(path)
		t.Fatalf("open database: %v", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		os.Remove(path)
		t.Fatalf("migrate: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.Remove(path)
	}

	return db, cleanup
}

// -----------------------------------------------------------------------------
// CustomerStore Tests
// -----------------------------------------------------------------------------

func TestCustomerStore_CreateAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewCustomerStore(db)
	ctx := context.Background()

	c := ports.Customer{
		ID:          "cus_1",
		Email:       "alice@example.com",
		Name:        "Alice",
		Currency:    "usd",
		ProviderIDs: map[string]string{"dummy": "prov_cus_1"},
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
		UpdatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	if err := store.Create(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.Get(ctx, "cus_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email != c.Email {
		t.Errorf("email = %q, want %q", got.Email, c.Email)
	}
	if got.ProviderIDs["dummy"] != "prov_cus_1" {
		t.Errorf("provider id = %q, want %q", got.ProviderIDs["dummy"], "prov_cus_1")
	}

	byEmail, err := store.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != "cus_1" {
		t.Errorf("id = %q, want cus_1", byEmail.ID)
	}
}

func TestCustomerStore_DuplicateID(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewCustomerStore(db)
	ctx := context.Background()

	c := ports.Customer{ID: "cus_1", Email: "a@example.com", Currency: "usd", CreatedAt: time.Now()}
	if err := store.Create(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Create(ctx, c); !errors.Is(err, sqlite.ErrDuplicate) {
		t.Errorf("err = %v, want ErrDuplicate", err)
	}
}

func TestCustomerStore_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewCustomerStore(db)
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, sqlite.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// -----------------------------------------------------------------------------
// InvoiceStore Tests
// -----------------------------------------------------------------------------

func testInvoice(id, customerID string) invoice.Invoice {
	now := time.Now().UTC().Truncate(time.Second)
	return invoice.Invoice{
		ID:         id,
		CustomerID: customerID,
		Status:     invoice.StatusDraft,
		Currency:   "usd",
		Lines: []invoice.Line{
			{ID: id + "_li_1", InvoiceID: id, Description: "Pro plan", Quantity: 1, UnitAmount: 2900, Amount: 2900},
		},
		Subtotal:    2900,
		Total:       2900,
		AmountDue:   2900,
		PeriodStart: now,
		PeriodEnd:   now.AddDate(0, 1, 0),
		CreatedAt:   now,
	}
}

func TestInvoiceStore_CreateAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewInvoiceStore(db)
	ctx := context.Background()

	inv := testInvoice("in_1", "cus_1")
	if err := store.Create(ctx, inv); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.Get(ctx, "in_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != invoice.StatusDraft {
		t.Errorf("status = %q, want draft", got.Status)
	}
	if len(got.Lines) != 1 || got.Lines[0].Description != "Pro plan" {
		t.Errorf("lines = %+v, want one Pro plan line", got.Lines)
	}
	if got.Total != 2900 {
		t.Errorf("total = %d, want 2900", got.Total)
	}
	if got.DueDate != nil {
		t.Errorf("due date = %v, want nil", got.DueDate)
	}
}

func TestInvoiceStore_Update(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewInvoiceStore(db)
	ctx := context.Background()

	inv := testInvoice("in_1", "cus_1")
	if err := store.Create(ctx, inv); err != nil {
		t.Fatalf("create: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	due := now.AddDate(0, 0, 14)
	finalized, err := invoice.Finalize(inv, "INV-2024-000001", &due, now)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if err := store.Update(ctx, finalized); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := store.Get(ctx, "in_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != invoice.StatusOpen {
		t.Errorf("status = %q, want open", got.Status)
	}
	if got.Number != "INV-2024-000001" {
		t.Errorf("number = %q", got.Number)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("due date = %v, want %v", got.DueDate, due)
	}
}

func TestInvoiceStore_Update_TerminalNotClobbered(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewInvoiceStore(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	inv := testInvoice("in_1", "cus_1")
	if err := store.Create(ctx, inv); err != nil {
		t.Fatalf("create: %v", err)
	}

	finalized, err := invoice.Finalize(inv, "INV-2024-000001", nil, now)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if err := store.Update(ctx, finalized); err != nil {
		t.Fatalf("update finalized: %v", err)
	}

	paid, err := invoice.Pay(finalized, now)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if err := store.Update(ctx, paid); err != nil {
		t.Fatalf("update paid: %v", err)
	}

	// A second writer holding the stale open snapshot must not undo the payment.
	voided, err := invoice.Void(finalized, now)
	if err != nil {
		t.Fatalf("void: %v", err)
	}
	if err := store.Update(ctx, voided); !errors.Is(err, sqlite.ErrNotFound) {
		t.Errorf("stale update err = %v, want ErrNotFound", err)
	}

	got, err := store.Get(ctx, "in_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != invoice.StatusPaid {
		t.Errorf("status = %q, want paid", got.Status)
	}
}

func TestInvoiceStore_ListByCustomer(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewInvoiceStore(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"in_1", "in_2", "in_3"} {
		inv := testInvoice(id, "cus_1")
		inv.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := store.Create(ctx, inv); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	other := testInvoice("in_other", "cus_2")
	if err := store.Create(ctx, other); err != nil {
		t.Fatalf("create other: %v", err)
	}

	got, err := store.ListByCustomer(ctx, "cus_1", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Newest first.
	if got[0].ID != "in_3" || got[1].ID != "in_2" {
		t.Errorf("order = %s, %s; want in_3, in_2", got[0].ID, got[1].ID)
	}
}

func TestInvoiceStore_NextSequence(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewInvoiceStore(db)
	ctx := context.Background()

	first, err := store.NextSequence(ctx)
	if err != nil {
		t.Fatalf("next sequence: %v", err)
	}
	if first != 1 {
		t.Errorf("first = %d, want 1", first)
	}
	second, err := store.NextSequence(ctx)
	if err != nil {
		t.Fatalf("next sequence: %v", err)
	}
	if second != 2 {
		t.Errorf("second = %d, want 2", second)
	}
}

// -----------------------------------------------------------------------------
// PaymentStore Tests
// -----------------------------------------------------------------------------

func TestPaymentStore_ListByCustomer_OldestFirst(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewPaymentStore(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	payments := []payment.Payment{
		{ID: "pay_2", CustomerID: "cus_1", Amount: 500, Currency: "usd", Status: payment.StatusFailed, FailureCode: "card_declined", CreatedAt: base.Add(time.Hour)},
		{ID: "pay_1", CustomerID: "cus_1", Amount: 500, Currency: "usd", Status: payment.StatusSucceeded, CreatedAt: base},
	}
	for _, p := range payments {
		if err := store.Create(ctx, p); err != nil {
			t.Fatalf("create %s: %v", p.ID, err)
		}
	}

	got, err := store.ListByCustomer(ctx, "cus_1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "pay_1" || got[1].ID != "pay_2" {
		t.Errorf("order = %s, %s; want pay_1, pay_2", got[0].ID, got[1].ID)
	}
	if got[1].FailureCode != "card_declined" {
		t.Errorf("failure code = %q", got[1].FailureCode)
	}
}

func TestPaymentStore_Update(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewPaymentStore(db)
	ctx := context.Background()

	p := payment.Payment{ID: "pay_1", CustomerID: "cus_1", Amount: 500, Currency: "usd", Status: payment.StatusPending, CreatedAt: time.Now()}
	if err := store.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	p.Status = payment.StatusFailed
	p.FailureCode = "insufficient_funds"
	p.FailureMessage = "Your card has insufficient funds."
	if err := store.Update(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := store.Get(ctx, "pay_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != payment.StatusFailed || got.FailureCode != "insufficient_funds" {
		t.Errorf("got %+v", got)
	}
}

// -----------------------------------------------------------------------------
// PromoStore Tests
// -----------------------------------------------------------------------------

func TestPromoStore_CreateAndGetByCode(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewPromoStore(db)
	ctx := context.Background()

	maxUses := 100
	expires := time.Now().UTC().Truncate(time.Second).AddDate(0, 1, 0)
	c := promo.Code{
		ID:        "promo_1",
		Code:      "LAUNCH20",
		Type:      promo.TypePercentage,
		Value:     20,
		MaxUses:   &maxUses,
		ExpiresAt: &expires,
		Active:    true,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := store.Create(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.GetByCode(ctx, "LAUNCH20")
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if got.Type != promo.TypePercentage || got.Value != 20 {
		t.Errorf("got %+v", got)
	}
	if got.MaxUses == nil || *got.MaxUses != 100 {
		t.Errorf("max uses = %v, want 100", got.MaxUses)
	}
	if got.MaxPerCustomer != nil {
		t.Errorf("max per customer = %v, want nil", got.MaxPerCustomer)
	}
	if got.ExpiresAt == nil || !got.ExpiresAt.Equal(expires) {
		t.Errorf("expires = %v, want %v", got.ExpiresAt, expires)
	}
}

func TestPromoStore_DuplicateCode(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewPromoStore(db)
	ctx := context.Background()

	a := promo.Code{ID: "promo_1", Code: "WELCOME", Type: promo.TypeFixedAmount, Value: 500, Active: true, CreatedAt: time.Now()}
	b := promo.Code{ID: "promo_2", Code: "WELCOME", Type: promo.TypeFixedAmount, Value: 500, Active: true, CreatedAt: time.Now()}
	if err := store.Create(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Create(ctx, b); !errors.Is(err, sqlite.ErrDuplicate) {
		t.Errorf("err = %v, want ErrDuplicate", err)
	}
}

func TestPromoStore_UsedCountMonotonic(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewPromoStore(db)
	ctx := context.Background()

	c := promo.Code{ID: "promo_1", Code: "WELCOME", Type: promo.TypeFixedAmount, Value: 500, Active: true, CreatedAt: time.Now()}
	if err := store.Create(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}

	c.UsedCount = 3
	if err := store.Update(ctx, c); err != nil {
		t.Fatalf("update: %v", err)
	}

	// A stale snapshot with a lower count must not roll the counter back.
	c.UsedCount = 1
	if err := store.Update(ctx, c); err != nil {
		t.Fatalf("stale update: %v", err)
	}

	got, err := store.GetByCode(ctx, "WELCOME")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UsedCount != 3 {
		t.Errorf("used count = %d, want 3", got.UsedCount)
	}
}

func TestPromoStore_UsageByCustomer(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewPromoStore(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	usages := []promo.Usage{
		{ID: "use_1", PromoCodeID: "promo_1", CustomerID: "cus_1", DiscountAmount: 500, Currency: "usd", CreatedAt: base},
		{ID: "use_2", PromoCodeID: "promo_2", CustomerID: "cus_1", DiscountAmount: 200, Currency: "usd", CreatedAt: base.Add(time.Minute)},
		{ID: "use_3", PromoCodeID: "promo_1", CustomerID: "cus_2", DiscountAmount: 500, Currency: "usd", CreatedAt: base},
	}
	for _, u := range usages {
		if err := store.RecordUsage(ctx, u); err != nil {
			t.Fatalf("record %s: %v", u.ID, err)
		}
	}

	got, err := store.UsageByCustomer(ctx, "cus_1")
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "use_1" || got[1].ID != "use_2" {
		t.Errorf("order = %s, %s", got[0].ID, got[1].ID)
	}
}

// -----------------------------------------------------------------------------
// CheckoutStore Tests
// -----------------------------------------------------------------------------

func testSession(id string) checkout.Session {
	now := time.Now().UTC().Truncate(time.Second)
	return checkout.Session{
		ID:            id,
		CustomerEmail: "alice@example.com",
		Mode:          checkout.ModePayment,
		Status:        checkout.StatusOpen,
		Currency:      "usd",
		LineItems: []checkout.LineItem{
			{PriceID: "price_pro", Quantity: 1},
		},
		SuccessURL: "https://example.com/success",
		CancelURL:  "https://example.com/cancel",
		ExpiresAt:  now.Add(24 * time.Hour),
		CreatedAt:  now,
	}
}

func TestCheckoutStore_CreateAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewCheckoutStore(db)
	ctx := context.Background()

	sess := testSession("cs_1")
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.Get(ctx, "cs_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != checkout.StatusOpen {
		t.Errorf("status = %q, want open", got.Status)
	}
	if len(got.LineItems) != 1 || got.LineItems[0].PriceID != "price_pro" {
		t.Errorf("line items = %+v", got.LineItems)
	}
	if got.CompletedAt != nil {
		t.Errorf("completed at = %v, want nil", got.CompletedAt)
	}
}

func TestCheckoutStore_ListOpen(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewCheckoutStore(db)
	ctx := context.Background()

	open := testSession("cs_open")
	expired := checkout.Expire(testSession("cs_expired"))
	for _, s := range []checkout.Session{open, expired} {
		if err := store.Create(ctx, s); err != nil {
			t.Fatalf("create %s: %v", s.ID, err)
		}
	}

	got, err := store.ListOpen(ctx)
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if len(got) != 1 || got[0].ID != "cs_open" {
		t.Errorf("got %+v, want only cs_open", got)
	}
}

func TestCheckoutStore_Update_CompletedNotReopened(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewCheckoutStore(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	sess := testSession("cs_1")
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}

	completed, err := checkout.Complete(sess, "pay_1", "", now)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := store.Update(ctx, completed); err != nil {
		t.Fatalf("update completed: %v", err)
	}

	// A stale open snapshot must not reopen the session.
	if err := store.Update(ctx, sess); !errors.Is(err, sqlite.ErrNotFound) {
		t.Errorf("stale update err = %v, want ErrNotFound", err)
	}

	got, err := store.Get(ctx, "cs_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != checkout.StatusComplete || got.PaymentID != "pay_1" {
		t.Errorf("got status %q payment %q", got.Status, got.PaymentID)
	}
}

// -----------------------------------------------------------------------------
// VendorStore / PayoutStore Tests
// -----------------------------------------------------------------------------

func testVendor(id string) payout.Vendor {
	return payout.Vendor{
		ID:             id,
		Name:           "Acme Widgets",
		Status:         payout.VendorStatusActive,
		CommissionRate: 20,
		Schedule: payout.Schedule{
			Interval:  payout.IntervalWeekly,
			DayOfWeek: time.Monday,
		},
		MinimumPayout:      1000,
		ProviderAccountIDs: map[string]string{"dummy": "acct_1"},
		CreatedAt:          time.Now().UTC().Truncate(time.Second),
	}
}

func TestVendorStore_CreateAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewVendorStore(db)
	ctx := context.Background()

	v := testVendor("ven_1")
	if err := store.Create(ctx, v); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.Get(ctx, "ven_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != payout.VendorStatusActive || got.CommissionRate != 20 {
		t.Errorf("got %+v", got)
	}
	if got.Schedule.Interval != payout.IntervalWeekly || got.Schedule.DayOfWeek != time.Monday {
		t.Errorf("schedule = %+v", got.Schedule)
	}
	if got.ProviderAccountIDs["dummy"] != "acct_1" {
		t.Errorf("provider accounts = %v", got.ProviderAccountIDs)
	}
}

func TestVendorStore_Update(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewVendorStore(db)
	ctx := context.Background()

	v := testVendor("ven_1")
	if err := store.Create(ctx, v); err != nil {
		t.Fatalf("create: %v", err)
	}

	v.Status = payout.VendorStatusSuspended
	v.CommissionRate = 25
	if err := store.Update(ctx, v); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := store.Get(ctx, "ven_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != payout.VendorStatusSuspended || got.CommissionRate != 25 {
		t.Errorf("got %+v", got)
	}
}

func testPayout(id, vendorID string) payout.Payout {
	now := time.Now().UTC().Truncate(time.Second)
	return payout.Payout{
		ID:          id,
		VendorID:    vendorID,
		Status:      payout.StatusPending,
		Amount:      8000,
		Currency:    "usd",
		PeriodStart: now.AddDate(0, 0, -7),
		PeriodEnd:   now,
		CreatedAt:   now,
	}
}

func TestPayoutStore_CreateAndGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewPayoutStore(db)
	ctx := context.Background()

	p := testPayout("po_1", "ven_1")
	if err := store.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.Get(ctx, "po_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != payout.StatusPending || got.Amount != 8000 {
		t.Errorf("got %+v", got)
	}
	if got.PaidAt != nil {
		t.Errorf("paid at = %v, want nil", got.PaidAt)
	}
}

func TestPayoutStore_Update_PaidNotDowngraded(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewPayoutStore(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	p := testPayout("po_1", "ven_1")
	if err := store.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	processing, err := payout.MarkProcessing(p)
	if err != nil {
		t.Fatalf("mark processing: %v", err)
	}
	paid, err := payout.MarkPaid(processing, "dummy", "po_dummy_1", now)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if err := store.Update(ctx, paid); err != nil {
		t.Fatalf("update paid: %v", err)
	}

	// A stale snapshot must not knock a settled payout back to failed.
	failed, err := payout.MarkFailed(processing, "network error")
	if err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if err := store.Update(ctx, failed); !errors.Is(err, sqlite.ErrNotFound) {
		t.Errorf("stale update err = %v, want ErrNotFound", err)
	}

	got, err := store.Get(ctx, "po_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != payout.StatusPaid {
		t.Errorf("status = %q, want paid", got.Status)
	}
	if got.ProviderPayoutIDs["dummy"] != "po_dummy_1" {
		t.Errorf("provider payout ids = %v", got.ProviderPayoutIDs)
	}
}

func TestPayoutStore_ListByVendor(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := sqlite.NewPayoutStore(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"po_1", "po_2", "po_3"} {
		p := testPayout(id, "ven_1")
		p.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := store.Create(ctx, p); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	got, err := store.ListByVendor(ctx, "ven_1", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != "po_3" || got[1].ID != "po_2" {
		t.Errorf("order = %s, %s; want po_3, po_2", got[0].ID, got[1].ID)
	}
}
