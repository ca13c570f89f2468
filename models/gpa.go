package models

import "github.com/shopspring/decimal"

// RoundGPA rounds a grade point average half away from zero to two places,
// starting from the shortest decimal representation of v
func RoundGPA(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// FormatGPA renders a grade point average with exactly two decimals.
// The float is first taken at its shortest decimal representation and then
// rounded half away from zero, so 9.285 renders as "9.29" where printf's
// "%.2f" on the same double gives "9.28".
func FormatGPA(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
