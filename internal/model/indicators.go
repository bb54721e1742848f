package model

import (
	"math"
	"time"
)

// IndicatorRow holds the indicator values for one bar. NaN marks a field
// whose lookback window is not yet satisfied.
type IndicatorRow struct {
	Time     time.Time
	Close    float64
	EMAFast  float64 // EMA(close, 5)
	RSI14    float64
	BBUpper  float64 // SMA20 + 2 population std
	MACDHist float64 // MACD(12,26,9) line - signal
}

// Defined reports whether every field needed for scoring is a number.
func (r IndicatorRow) Defined() bool {
	for _, v := range [...]float64{r.Close, r.EMAFast, r.RSI14, r.BBUpper, r.MACDHist} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
