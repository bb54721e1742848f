package calculator

// MACDSeries holds MACD line, signal and histogram series aligned to the input.
type MACDSeries struct {
	Line   []float64
	Signal []float64
	Hist   []float64
}

// MACD computes line = EMA(fast) - EMA(slow), signal = EMA(line, signal)
// and hist = line - signal. With 12/26/9 the line is defined from index 25
// and the histogram from index 33.
func MACD(closes []float64, fast, slow, signal int) MACDSeries {
	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)

	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fastEMA[i] - slowEMA[i] // NaN propagates through warm-up
	}
	sig := EMA(line, signal)

	hist := make([]float64, len(closes))
	for i := range closes {
		hist[i] = line[i] - sig[i]
	}
	return MACDSeries{Line: line, Signal: sig, Hist: hist}
}
