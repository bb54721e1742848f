package calculator

import (
	"errors"
	"fmt"

	"BreakoutRadar/internal/model"
)

// Indicator parameters.
const (
	EMAFastPeriod   = 5
	RSIPeriod       = 14
	BollingerPeriod = 20
	BollingerMult   = 2.0
	MACDFast        = 12
	MACDSlow        = 26
	MACDSignal      = 9
	VolumeWindow    = 5
)

// MinBars is the shortest series that yields two fully defined rows.
// The MACD histogram is the slowest field: first defined at index
// MACDSlow+MACDSignal-2.
const MinBars = MACDSlow + MACDSignal

// ErrDataInsufficient is returned when a series cannot produce two fully
// defined indicator rows.
var ErrDataInsufficient = errors.New("insufficient data")

// Compute derives one IndicatorRow per bar. Fields whose warm-up has not
// completed are NaN.
func Compute(series *model.Series) ([]model.IndicatorRow, error) {
	if series == nil || len(series.Bars) == 0 {
		return nil, fmt.Errorf("%w: empty series", ErrDataInsufficient)
	}

	closes := series.Closes()
	ema := EMA(closes, EMAFastPeriod)
	rsi := RSI(closes, RSIPeriod)
	bb := Bollinger(closes, BollingerPeriod, BollingerMult)
	macd := MACD(closes, MACDFast, MACDSlow, MACDSignal)

	rows := make([]model.IndicatorRow, len(closes))
	defined := 0
	for i, bar := range series.Bars {
		rows[i] = model.IndicatorRow{
			Time:     bar.Time,
			Close:    bar.Close,
			EMAFast:  ema[i],
			RSI14:    rsi[i],
			BBUpper:  bb.Upper[i],
			MACDHist: macd.Hist[i],
		}
		if rows[i].Defined() {
			defined++
		}
	}
	if defined < 2 {
		return nil, fmt.Errorf("%w: %d bars, %d fully defined rows (need %d bars)",
			ErrDataInsufficient, len(closes), defined, MinBars)
	}
	return rows, nil
}

// LatestPair returns the index of the most recent row that is fully defined
// and whose immediate predecessor is also fully defined.
func LatestPair(rows []model.IndicatorRow) (int, error) {
	for i := len(rows) - 1; i >= 1; i-- {
		if rows[i].Defined() && rows[i-1].Defined() {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: no two adjacent fully defined rows", ErrDataInsufficient)
}
