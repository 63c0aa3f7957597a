package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardizeMerchant(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"AMAZON EU SARL", "Amazon"},
		{"AMZN Mktp IT", "Amazon"},
		{"Uber Eats Milano", "Uber Eats"},
		{"UBER *TRIP 4711", "Uber"},
		{"Esselunga (via Ripamonti)", "Esselunga"},
		{"Enel Energia SpA", "Enel Energia"},
		{"Corner Bakery", "Corner Bakery"},
		{"  Corner Bakery  ", "Corner Bakery"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StandardizeMerchant(tc.raw, DefaultMerchantRules), "raw=%q", tc.raw)
	}
}

func TestStandardizeMerchantRuleOrder(t *testing.T) {
	// "uber eats" precedes "uber", so the more specific rule wins.
	assert.Equal(t, "Uber Eats", StandardizeMerchant("uber eats IT", DefaultMerchantRules))
	assert.Equal(t, "Uber", StandardizeMerchant("uber bv", DefaultMerchantRules))
}

func TestStandardizeMerchantCustomRules(t *testing.T) {
	rules := []MerchantRule{{Substring: "bakery", Canonical: "Bakery"}}
	assert.Equal(t, "Bakery", StandardizeMerchant("Corner Bakery 22", rules))
	assert.Equal(t, "Something Else", StandardizeMerchant("Something Else", rules))
}

func TestStripParenthetical(t *testing.T) {
	assert.Equal(t, "Amazon", stripParenthetical("Amazon (order 4711)"))
	assert.Equal(t, "Shop", stripParenthetical("Shop（online）"))
	// A leading parenthesis is not a suffix.
	assert.Equal(t, "(pre) Shop", stripParenthetical("(pre) Shop"))
}

func TestMerchantPlaceholder(t *testing.T) {
	for _, name := range []string{"", " ", "-", "Unknown", "n/a", "NONE"} {
		assert.True(t, merchantPlaceholder(name), "name=%q", name)
	}
	assert.False(t, merchantPlaceholder("Esselunga"))
}
