package checkout_test

import (
	"strings"
	"testing"

	"github.com/artpar/billgate/domain/checkout"
)

func validInput() checkout.Input {
	return checkout.Input{
		CustomerID: "cus_1",
		Mode:       checkout.ModePayment,
		LineItems: []checkout.LineItem{
			{PriceID: "price_basic", Quantity: 1},
		},
		SuccessURL: "https://example.com/success",
		CancelURL:  "https://example.com/cancel",
	}
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*checkout.Input)
		cfg     checkout.InputConfig
		valid   bool
		errPart string
	}{
		{"valid", func(*checkout.Input) {}, checkout.InputConfig{}, true, ""},
		{"no items", func(in *checkout.Input) { in.LineItems = nil }, checkout.InputConfig{}, false, "line item"},
		{"empty price id", func(in *checkout.Input) { in.LineItems[0].PriceID = "" }, checkout.InputConfig{}, false, "price id"},
		{"zero quantity", func(in *checkout.Input) { in.LineItems[0].Quantity = 0 }, checkout.InputConfig{}, false, "quantity"},
		{"bad success url", func(in *checkout.Input) { in.SuccessURL = "not a url" }, checkout.InputConfig{}, false, "success url"},
		{"relative cancel url", func(in *checkout.Input) { in.CancelURL = "/cancel" }, checkout.InputConfig{}, false, "cancel url"},
		{
			"subscription with two items",
			func(in *checkout.Input) {
				in.Mode = checkout.ModeSubscription
				in.LineItems = append(in.LineItems, checkout.LineItem{PriceID: "price_x", Quantity: 1})
			},
			checkout.InputConfig{}, false, "exactly one",
		},
		{
			"subscription with one item",
			func(in *checkout.Input) { in.Mode = checkout.ModeSubscription },
			checkout.InputConfig{}, true, "",
		},
		{
			"customer required and missing",
			func(in *checkout.Input) { in.CustomerID = "" },
			checkout.InputConfig{RequireCustomer: true}, false, "customer",
		},
		{
			"email satisfies customer requirement",
			func(in *checkout.Input) {
				in.CustomerID = ""
				in.CustomerEmail = "a@example.com"
			},
			checkout.InputConfig{RequireCustomer: true}, true, "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			res := checkout.ValidateInput(in, tt.cfg)
			if res.Valid != tt.valid {
				t.Fatalf("Valid = %v, errors %v", res.Valid, res.Errors)
			}
			if tt.errPart != "" {
				found := false
				for _, e := range res.Errors {
					if strings.Contains(e, tt.errPart) {
						found = true
					}
				}
				if !found {
					t.Errorf("errors %v missing %q", res.Errors, tt.errPart)
				}
			}
		})
	}
}

func TestAppendSessionID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare url", "https://example.com/done", "https://example.com/done?session_id=cs_1"},
		{"existing query preserved", "https://example.com/done?ref=abc", "https://example.com/done?ref=abc&session_id=cs_1"},
		{"existing session_id replaced", "https://example.com/done?session_id=old", "https://example.com/done?session_id=cs_1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkout.AppendSessionID(tt.in, "cs_1"); got != tt.want {
				t.Errorf("AppendSessionID = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppendCanceled(t *testing.T) {
	got := checkout.AppendCanceled("https://example.com/cancel?ref=x")
	if got != "https://example.com/cancel?canceled=true&ref=x" {
		t.Errorf("AppendCanceled = %q", got)
	}
}

func TestExtractSessionID(t *testing.T) {
	id, ok := checkout.ExtractSessionID("https://example.com/done?session_id=cs_42&ref=x")
	if !ok || id != "cs_42" {
		t.Errorf("ExtractSessionID = (%q, %v)", id, ok)
	}

	if _, ok := checkout.ExtractSessionID("https://example.com/done"); ok {
		t.Error("expected no session id")
	}
}
