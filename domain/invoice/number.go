package invoice

import (
	"strconv"
	"time"
)

// NumberConfig controls the deterministic invoice number format.
type NumberConfig struct {
	Prefix       string // e.g. "INV"
	TenantPrefix string // optional per-tenant segment
	IncludeYear  bool
	Separator    string // defaults to "-"
	PadDigits    int    // zero-padded sequence width, defaults to 6
}

// GenerateNumber builds an invoice number from a sequence value.
// Format: prefix[-tenant][-year]-sequence, e.g. INV-ACME-2024-000042.
// This is a PURE function.
func GenerateNumber(sequence int64, cfg NumberConfig, now time.Time) string {
	sep := cfg.Separator
	if sep == "" {
		sep = "-"
	}
	pad := cfg.PadDigits
	if pad <= 0 {
		pad = 6
	}

	seq := strconv.FormatInt(sequence, 10)
	for len(seq) < pad {
		seq = "0" + seq
	}

	number := cfg.Prefix
	if number == "" {
		number = "INV"
	}
	if cfg.TenantPrefix != "" {
		number += sep + cfg.TenantPrefix
	}
	if cfg.IncludeYear {
		number += sep + strconv.Itoa(now.Year())
	}
	return number + sep + seq
}
