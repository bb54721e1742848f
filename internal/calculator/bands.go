package calculator

import "math"

// BollingerBands holds band series aligned to the input.
type BollingerBands struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Bollinger computes bands as the rolling mean plus/minus mult times the
// rolling population standard deviation (divisor n) over period.
func Bollinger(closes []float64, period int, mult float64) BollingerBands {
	bb := BollingerBands{
		Upper:  nanSeries(len(closes)),
		Middle: SMA(closes, period),
		Lower:  nanSeries(len(closes)),
	}
	if period <= 0 {
		return bb
	}
	for i := period - 1; i < len(closes); i++ {
		ma := bb.Middle[i]
		var sumSq float64
		for j := i - period + 1; j <= i; j++ {
			d := closes[j] - ma
			sumSq += d * d
		}
		std := math.Sqrt(sumSq / float64(period))
		bb.Upper[i] = ma + mult*std
		bb.Lower[i] = ma - mult*std
	}
	return bb
}
