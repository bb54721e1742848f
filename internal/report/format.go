// Package report renders screening results for people: terminal tables,
// the analysis prompt, Telegram messages and candlestick chart data.
package report

import "github.com/shopspring/decimal"

// Price formats a price with two decimals.
func Price(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// RSI formats an RSI value with one decimal.
func RSI(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1)
}

// VolumeRatio formats a ratio as a multiplier rounded to two decimals,
// trailing zeros trimmed ("2x", "1.35x").
func VolumeRatio(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String() + "x"
}
