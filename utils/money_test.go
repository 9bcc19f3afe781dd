package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDecimal(t *testing.T) {
	assert.Equal(t, 99.5, ParseDecimal("99.5"))
	assert.Equal(t, 10.0, ParseDecimal("  10  "))
	assert.Equal(t, 0.0, ParseDecimal("N/A"))
	assert.Equal(t, 0.0, ParseDecimal(""))
	assert.Equal(t, -5.25, ParseDecimal("-5.25"))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "99.5", FormatPrice(99.5))
	assert.Equal(t, "10", FormatPrice(10))
	assert.Equal(t, "0", FormatPrice(0))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "99,50", FormatCurrency(99.5))
	// Czech digit grouping uses a non-breaking space
	assert.Equal(t, "1 234,50", FormatCurrency(1234.5))
	assert.Equal(t, "0,00", FormatCurrency(0))
}

func TestCalculateProductStats(t *testing.T) {
	stats := CalculateProductStats([]float64{10, 20, 30})
	assert.Equal(t, 3, stats.TotalProducts)
	assert.Equal(t, 60.0, stats.TotalValue)
	assert.Equal(t, 20.0, stats.AveragePrice)
}

func TestCalculateProductStatsEmpty(t *testing.T) {
	stats := CalculateProductStats(nil)
	assert.Equal(t, 0, stats.TotalProducts)
	assert.Equal(t, 0.0, stats.TotalValue)
	assert.Equal(t, 0.0, stats.AveragePrice)
}

func TestNormalizeProductName(t *testing.T) {
	assert.Equal(t, "mléko polotučné", NormalizeProductName("  Mléko   Polotučné "))
	assert.Equal(t, NormalizeProductName("MLÉKO"), NormalizeProductName("mléko"))
	assert.Equal(t, "", NormalizeProductName("   "))
}
