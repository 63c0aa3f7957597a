package analytics

import "strings"

// MerchantRule maps raw merchant strings containing Substring onto one
// canonical label. Rules are evaluated in order; the first match wins.
type MerchantRule struct {
	Substring string
	Canonical string
}

// DefaultMerchantRules folds known marketplace aliases and provider
// variants onto canonical labels. Order matters: more specific
// substrings come before shorter ones ("uber eats" before "uber").
var DefaultMerchantRules = []MerchantRule{
	{"amazon", "Amazon"},
	{"amzn", "Amazon"},
	{"aliexpress", "AliExpress"},
	{"ebay", "eBay"},
	{"paypal *", "PayPal"},
	{"uber eats", "Uber Eats"},
	{"uber", "Uber"},
	{"lyft", "Lyft"},
	{"netflix", "Netflix"},
	{"spotify", "Spotify"},
	{"apple.com", "Apple"},
	{"itunes", "Apple"},
	{"google *", "Google"},
	{"starbucks", "Starbucks"},
	{"mcdonald", "McDonald's"},
	{"carrefour", "Carrefour"},
	{"lidl", "Lidl"},
	{"aldi", "Aldi"},
	{"esselunga", "Esselunga"},
	{"coop", "Coop"},
	{"enel", "Enel Energia"},
	{"eni ", "Eni"},
	{"vodafone", "Vodafone"},
	{"tim ", "TIM"},
	{"trenitalia", "Trenitalia"},
	{"italo", "Italo"},
	{"ryanair", "Ryanair"},
	{"easyjet", "easyJet"},
	{"booking.com", "Booking.com"},
	{"airbnb", "Airbnb"},
	{"ikea", "IKEA"},
	{"decathlon", "Decathlon"},
	{"zara", "Zara"},
	{"h&m", "H&M"},
}

// StandardizeMerchant maps a raw merchant/counterparty string onto its
// canonical label: a trailing parenthetical suffix is stripped, then the
// rules are applied in order. Unmatched names are returned trimmed.
func StandardizeMerchant(raw string, rules []MerchantRule) string {
	name := stripParenthetical(raw)
	lower := strings.ToLower(name)
	for _, r := range rules {
		if strings.Contains(lower, r.Substring) {
			return r.Canonical
		}
	}
	return name
}

// stripParenthetical removes one trailing "(...)" suffix, full-width
// parentheses included, so "Amazon (order 4711)" groups as "Amazon".
func stripParenthetical(s string) string {
	s = strings.TrimSpace(s)
	for _, open := range []string{"(", "（"} {
		if i := strings.Index(s, open); i > 0 {
			s = strings.TrimSpace(s[:i])
		}
	}
	return s
}

// merchantPlaceholder reports labels that carry no merchant information
// and must not appear in merchant-keyed views.
func merchantPlaceholder(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "-", "unknown", "n/a", "none":
		return true
	}
	return false
}
