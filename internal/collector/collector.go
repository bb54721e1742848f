package collector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"BreakoutRadar/internal/model"
)

// Collector fetches and validates one symbol's series.
type Collector struct {
	Fetcher Fetcher
	Timeout time.Duration // per-symbol acquisition timeout, 0 means none
	Now     func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, timeout time.Duration) *Collector {
	return &Collector{Fetcher: fetcher, Timeout: timeout, Now: time.Now}
}

// Acquire fetches daily bars and returns a validated series: sorted
// ascending, one bar per date, finite non-negative values.
func (c *Collector) Acquire(ctx context.Context, symbol string, period model.Period) (*model.Series, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	bars, err := c.Fetcher.FetchDailyHistory(ctx, symbol, period)
	if err != nil {
		return nil, fmt.Errorf("fetch daily history: %w", err)
	}
	bars, err = normalize(symbol, bars)
	if err != nil {
		return nil, err
	}
	return &model.Series{
		Symbol:    symbol,
		Period:    period,
		Bars:      bars,
		FetchedAt: c.Now(),
	}, nil
}

func normalize(symbol string, bars []model.OHLCV) ([]model.OHLCV, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}
	out := make([]model.OHLCV, len(bars))
	copy(out, bars)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	// Keep the last bar seen for each trading date.
	deduped := out[:0]
	for _, b := range out {
		if err := checkBar(b); err != nil {
			return nil, fmt.Errorf("%s bar %s: %v: %w", symbol, b.Time.Format("2006-01-02"), err, ErrMalformed)
		}
		if n := len(deduped); n > 0 && sameDate(deduped[n-1].Time, b.Time) {
			log.Debug().Str("symbol", symbol).Time("date", b.Time).Msg("duplicate bar dropped")
			deduped[n-1] = b
			continue
		}
		deduped = append(deduped, b)
	}
	return deduped, nil
}

func checkBar(b model.OHLCV) error {
	for _, v := range [...]float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("invalid value %v", v)
		}
	}
	if b.Close == 0 {
		return fmt.Errorf("zero close")
	}
	return nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
