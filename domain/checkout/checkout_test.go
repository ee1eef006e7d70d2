package checkout_test

import (
	"testing"
	"time"

	"github.com/artpar/billgate/domain/checkout"
)

var sessionExpiry = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func openSession() checkout.Session {
	return checkout.Session{
		ID:        "cs_1",
		Mode:      checkout.ModePayment,
		Status:    checkout.StatusOpen,
		Currency:  "usd",
		ExpiresAt: sessionExpiry,
		LineItems: []checkout.LineItem{
			{PriceID: "price_basic", Quantity: 1},
		},
	}
}

func TestIsOpen(t *testing.T) {
	s := openSession()

	if !checkout.IsOpen(s, sessionExpiry.Add(-time.Hour)) {
		t.Error("session should be open before expiry")
	}
	// False at the exact expiry instant even though status is still open.
	if checkout.IsOpen(s, sessionExpiry) {
		t.Error("session should not be open at expiry")
	}
	if checkout.IsOpen(s, sessionExpiry.Add(time.Hour)) {
		t.Error("session should not be open past expiry")
	}

	s.Status = checkout.StatusComplete
	if checkout.IsOpen(s, sessionExpiry.Add(-time.Hour)) {
		t.Error("completed session is not open")
	}
}

func TestAddItem(t *testing.T) {
	s := openSession()

	t.Run("new price id appends", func(t *testing.T) {
		out := checkout.AddItem(s, "price_addon", 2)
		if len(out.LineItems) != 2 {
			t.Fatalf("got %d items", len(out.LineItems))
		}
		if out.LineItems[1].PriceID != "price_addon" || out.LineItems[1].Quantity != 2 {
			t.Errorf("item = %+v", out.LineItems[1])
		}
		// Input snapshot untouched.
		if len(s.LineItems) != 1 {
			t.Error("input session was mutated")
		}
	})

	t.Run("existing price id increments", func(t *testing.T) {
		out := checkout.AddItem(s, "price_basic", 3)
		if len(out.LineItems) != 1 {
			t.Fatalf("got %d items, want 1", len(out.LineItems))
		}
		if out.LineItems[0].Quantity != 4 {
			t.Errorf("quantity = %d, want 4", out.LineItems[0].Quantity)
		}
	})
}

func TestRemoveItem(t *testing.T) {
	s := checkout.AddItem(openSession(), "price_addon", 1)

	out := checkout.RemoveItem(s, "price_basic")
	if len(out.LineItems) != 1 || out.LineItems[0].PriceID != "price_addon" {
		t.Errorf("items = %+v", out.LineItems)
	}

	out = checkout.RemoveItem(s, "price_missing")
	if len(out.LineItems) != 2 {
		t.Error("removing a missing item should be a no-op")
	}
}

func TestUpdateQuantity(t *testing.T) {
	s := openSession()

	out := checkout.UpdateQuantity(s, "price_basic", 5)
	if out.LineItems[0].Quantity != 5 {
		t.Errorf("quantity = %d, want 5", out.LineItems[0].Quantity)
	}

	// Below one removes the item.
	out = checkout.UpdateQuantity(s, "price_basic", 0)
	if len(out.LineItems) != 0 {
		t.Errorf("items = %+v, want empty", out.LineItems)
	}
}

func TestComplete(t *testing.T) {
	now := sessionExpiry.Add(-time.Hour)

	t.Run("payment mode ignores subscription id", func(t *testing.T) {
		out, err := checkout.Complete(openSession(), "pay_1", "sub_1", now)
		if err != nil {
			t.Fatal(err)
		}
		if out.Status != checkout.StatusComplete || out.PaymentID != "pay_1" {
			t.Errorf("session = %+v", out)
		}
		if out.SubscriptionID != "" {
			t.Error("subscription id recorded in payment mode")
		}
		if out.CompletedAt == nil || !out.CompletedAt.Equal(now) {
			t.Error("CompletedAt not stamped")
		}
	})

	t.Run("subscription mode records subscription", func(t *testing.T) {
		s := openSession()
		s.Mode = checkout.ModeSubscription
		out, err := checkout.Complete(s, "pay_1", "sub_1", now)
		if err != nil {
			t.Fatal(err)
		}
		if out.SubscriptionID != "sub_1" {
			t.Errorf("SubscriptionID = %q", out.SubscriptionID)
		}
	})

	t.Run("expired session rejected", func(t *testing.T) {
		if _, err := checkout.Complete(openSession(), "pay_1", "", sessionExpiry); err == nil {
			t.Error("expected error completing at expiry")
		}
	})

	t.Run("completed session rejected", func(t *testing.T) {
		done, _ := checkout.Complete(openSession(), "pay_1", "", now)
		if check := checkout.CanBeCompleted(done, now); check.Allowed {
			t.Error("completed session should not be completable")
		}
	})
}

func TestExpire(t *testing.T) {
	out := checkout.Expire(openSession())
	if out.Status != checkout.StatusExpired {
		t.Errorf("Status = %s", out.Status)
	}

	// Idempotent on terminal states.
	done, _ := checkout.Complete(openSession(), "pay_1", "", sessionExpiry.Add(-time.Hour))
	if checkout.Expire(done).Status != checkout.StatusComplete {
		t.Error("expire should not touch a completed session")
	}
}

func TestWithProviderSession(t *testing.T) {
	s := openSession()
	out := checkout.WithProviderSession(s, "stripe", "cs_stripe_1")
	out = checkout.WithProviderSession(out, "mercadopago", "mp_2")

	if out.ProviderSessionIDs["stripe"] != "cs_stripe_1" || out.ProviderSessionIDs["mercadopago"] != "mp_2" {
		t.Errorf("ids = %v", out.ProviderSessionIDs)
	}
	if s.ProviderSessionIDs != nil {
		t.Error("input snapshot was mutated")
	}
}
