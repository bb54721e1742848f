package calculator

import "math"

// SMA computes the simple moving average series of x over period p.
// Rows before the window fills are NaN.
func SMA(x []float64, p int) []float64 {
	out := nanSeries(len(x))
	if p <= 0 {
		return out
	}
	var sum float64
	for i := range x {
		sum += x[i]
		if i >= p {
			sum -= x[i-p]
		}
		if i >= p-1 {
			out[i] = sum / float64(p)
		}
	}
	return out
}

// EMA computes the exponential moving average series of x with span p
// (k = 2/(p+1)), seeded with the SMA of the first p defined values.
// Leading NaNs in x are skipped, so EMA can be chained on another
// indicator's output.
func EMA(x []float64, p int) []float64 {
	out := nanSeries(len(x))
	if p <= 0 {
		return out
	}
	start := 0
	for start < len(x) && math.IsNaN(x[start]) {
		start++
	}
	if len(x)-start < p {
		return out
	}

	var seed float64
	for i := start; i < start+p; i++ {
		seed += x[i]
	}
	seedIdx := start + p - 1
	out[seedIdx] = seed / float64(p)

	k := 2.0 / float64(p+1)
	for i := seedIdx + 1; i < len(x); i++ {
		out[i] = (x[i]-out[i-1])*k + out[i-1]
	}
	return out
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
