package invoice_test

import (
	"testing"
	"time"

	"github.com/artpar/billgate/domain/invoice"
)

func TestGenerateNumber(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		seq  int64
		cfg  invoice.NumberConfig
		want string
	}{
		{"defaults", 42, invoice.NumberConfig{}, "INV-000042"},
		{"with year", 1, invoice.NumberConfig{Prefix: "INV", IncludeYear: true}, "INV-2024-000001"},
		{"tenant and year", 7, invoice.NumberConfig{Prefix: "INV", TenantPrefix: "ACME", IncludeYear: true}, "INV-ACME-2024-000007"},
		{"custom separator", 3, invoice.NumberConfig{Prefix: "B", Separator: "/", PadDigits: 4}, "B/0003"},
		{"sequence wider than padding", 1234567, invoice.NumberConfig{PadDigits: 4}, "INV-1234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := invoice.GenerateNumber(tt.seq, tt.cfg, now)
			if got != tt.want {
				t.Errorf("GenerateNumber(%d) = %q, want %q", tt.seq, got, tt.want)
			}
		})
	}
}
