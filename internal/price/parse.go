package price

import (
	"regexp"
	"strconv"
	"strings"
)

// Currency tokens seen on the supported marketplaces. Order matters: longer
// spellings first so "Rs." is not consumed as "Rs" + ".".
var currencyTokens = []struct {
	token string
	code  string
}{
	{"₹", "INR"},
	{"Rs.", "INR"},
	{"Rs", "INR"},
	{"INR", "INR"},
	{"USD", "USD"},
	{"$", "USD"},
	{"EUR", "EUR"},
	{"€", "EUR"},
	{"GBP", "GBP"},
	{"£", "GBP"},
}

var amountRe = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// parseAmounts pulls every numeric amount out of a raw price string,
// normalizing Indian-style comma grouping ("1,999" -> 1999).
func parseAmounts(raw string) []float64 {
	var out []float64
	for _, m := range amountRe.FindAllString(raw, -1) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

func detectCurrency(raw string) string {
	for _, c := range currencyTokens {
		if strings.Contains(raw, c.token) {
			return c.code
		}
	}
	return ""
}

// parseCandidate resolves a raw price string into an amount and currency
// code. Ranges like "₹499 - ₹999" resolve to the lower bound, which is the
// price the buyer can actually pay. fallbackCurrency covers structured
// metadata where the currency ships in a separate field.
func parseCandidate(raw, fallbackCurrency string) (float64, string, bool) {
	currency := detectCurrency(raw)
	if currency == "" {
		currency = normalizeCurrencyCode(fallbackCurrency)
	}
	if currency == "" {
		return 0, "", false
	}

	amounts := parseAmounts(raw)
	if len(amounts) == 0 {
		return 0, "", false
	}
	min := amounts[0]
	for _, v := range amounts[1:] {
		if v < min {
			min = v
		}
	}
	if min <= 0 {
		return 0, "", false
	}
	return min, currency, true
}

func normalizeCurrencyCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	switch code {
	case "INR", "USD", "EUR", "GBP":
		return code
	case "RS", "RS.", "₹":
		return "INR"
	case "$":
		return "USD"
	}
	return ""
}
