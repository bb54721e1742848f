package model

import (
	"fmt"
	"time"
)

// OHLCV represents a single daily bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Period selects the history window requested from the data source.
type Period string

const (
	Period1Mo Period = "1mo"
	Period3Mo Period = "3mo"
	Period6Mo Period = "6mo"
)

// ParsePeriod validates a period string.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case Period1Mo, Period3Mo, Period6Mo:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported period %q (want 1mo, 3mo or 6mo)", s)
	}
}

// TradingDays is the approximate number of daily bars a period covers.
func (p Period) TradingDays() int {
	switch p {
	case Period1Mo:
		return 22
	case Period6Mo:
		return 126
	default:
		return 63
	}
}

// Series holds the raw bars of one symbol for one run.
type Series struct {
	Symbol    string
	Period    Period
	Bars      []OHLCV // chronological ascending
	FetchedAt time.Time
}

// Closes returns the close sub-series.
func (s *Series) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Latest returns the most recent bar.
func (s *Series) Latest() (OHLCV, bool) {
	if len(s.Bars) == 0 {
		return OHLCV{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}
