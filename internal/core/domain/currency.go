package domain

import "sort"

// minorUnits lists the supported currencies and their fraction digits.
var minorUnits = map[string]int32{
	"EUR": 2,
	"USD": 2,
	"GBP": 2,
	"CHF": 2,
	"RUB": 2,
}

// IsSupportedCurrency reports whether the ISO code can be used for new accounts.
func IsSupportedCurrency(code string) bool {
	_, ok := minorUnits[code]
	return ok
}

// MinorUnits returns the fraction digits of a currency, defaulting to 2.
func MinorUnits(code string) int32 {
	if u, ok := minorUnits[code]; ok {
		return u
	}
	return 2
}

// SupportedCurrencies returns the supported ISO codes in sorted order.
func SupportedCurrencies() []string {
	codes := make([]string, 0, len(minorUnits))
	for c := range minorUnits {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}
