package utils

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ParseDecimal parses a price value leniently: any string that does not parse
// as a floating-point number yields 0 rather than an error. Callers treat
// unparseable prices as zero by policy.
func ParseDecimal(value string) float64 {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return parsed
}

// FormatPrice renders a price as its canonical decimal string ("99.5", "10").
func FormatPrice(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// Currency display always uses the Czech convention regardless of host locale,
// so formatted values are stable across machines.
var currencyPrinter = message.NewPrinter(language.Czech)

// FormatCurrency renders a value with exactly two decimal places using Czech
// digit grouping and decimal separator conventions.
func FormatCurrency(value float64) string {
	return currencyPrinter.Sprint(number.Decimal(value,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

// ProductStats holds summary statistics over a set of product prices
type ProductStats struct {
	TotalProducts int     `json:"total_products"`
	TotalValue    float64 `json:"total_value"`
	AveragePrice  float64 `json:"average_price"`
}

// CalculateProductStats computes count, total and average over the given
// prices. The average of an empty set is 0, not an error.
func CalculateProductStats(prices []float64) ProductStats {
	stats := ProductStats{TotalProducts: len(prices)}
	for _, p := range prices {
		stats.TotalValue += p
	}
	if stats.TotalProducts > 0 {
		stats.AveragePrice = stats.TotalValue / float64(stats.TotalProducts)
	}
	return stats
}

// NormalizeProductName lower-cases, trims and collapses internal whitespace
// runs to a single space. Two names that differ only in case or spacing
// normalize to the same string.
func NormalizeProductName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
