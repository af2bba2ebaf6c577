package payment

import "strings"

// DefaultCountryCode is the Liberian calling code; the storefront sells
// in LRD.
const DefaultCountryCode = "231"

// NormalizeMSISDN turns user-entered phone numbers into the MSISDN form
// the payment provider expects: digits only, prefixed with the country
// calling code. A leading zero on the local number is dropped, and
// numbers already carrying the country code pass through unchanged.
func NormalizeMSISDN(raw, countryCode string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	number := digits.String()
	if number == "" {
		return ""
	}
	if strings.HasPrefix(number, countryCode) {
		return number
	}
	number = strings.TrimPrefix(number, "0")
	return countryCode + number
}
