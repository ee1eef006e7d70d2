package checkout

import (
	"net/url"
	"strconv"
)

// InputConfig tunes checkout input validation.
type InputConfig struct {
	RequireCustomer bool
}

// Input describes a checkout session creation request.
type Input struct {
	CustomerID    string
	CustomerEmail string
	Mode          Mode
	Currency      string
	LineItems     []LineItem
	SuccessURL    string
	CancelURL     string
}

// ValidationResult aggregates every input problem found.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// ValidateInput checks a session creation request: non-empty items with
// positive quantities and price ids, well-formed redirect URLs, exactly
// one item in subscription mode, and a customer identifier when the
// configuration demands one.
// This is a PURE function.
func ValidateInput(in Input, cfg InputConfig) ValidationResult {
	var errs []string

	if len(in.LineItems) == 0 {
		errs = append(errs, "at least one line item is required")
	}
	if in.Mode == ModeSubscription && len(in.LineItems) > 1 {
		errs = append(errs, "subscription checkout requires exactly one line item")
	}
	for i, it := range in.LineItems {
		if it.PriceID == "" {
			errs = append(errs, "line "+strconv.Itoa(i)+": price id is required")
		}
		if it.Quantity < 1 {
			errs = append(errs, "line "+strconv.Itoa(i)+": quantity must be positive")
		}
	}

	if !isHTTPURL(in.SuccessURL) {
		errs = append(errs, "success url must be a valid http(s) url")
	}
	if !isHTTPURL(in.CancelURL) {
		errs = append(errs, "cancel url must be a valid http(s) url")
	}

	if cfg.RequireCustomer && in.CustomerID == "" && in.CustomerEmail == "" {
		errs = append(errs, "a customer id or email is required")
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// AppendSessionID adds a session_id query parameter to a redirect URL,
// preserving any existing query string. Malformed URLs are returned
// unchanged.
// This is a PURE function.
func AppendSessionID(raw, sessionID string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	q.Set("session_id", sessionID)
	u.RawQuery = q.Encode()
	return u.String()
}

// AppendCanceled adds canceled=true to a cancel redirect URL.
// This is a PURE function.
func AppendCanceled(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	q.Set("canceled", "true")
	u.RawQuery = q.Encode()
	return u.String()
}

// ExtractSessionID reads the session_id query parameter from a URL.
// This is a PURE function.
func ExtractSessionID(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	id := u.Query().Get("session_id")
	return id, id != ""
}
