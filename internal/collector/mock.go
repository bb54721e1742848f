package collector

import (
	"context"
	"sync"
	"time"

	"BreakoutRadar/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	mu     sync.Mutex
	Bars   map[string][]model.OHLCV
	Errors map[string]error
	Calls  map[string]int
}

// NewMockFetcher creates an empty MockFetcher.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		Bars:   make(map[string][]model.OHLCV),
		Errors: make(map[string]error),
		Calls:  make(map[string]int),
	}
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyHistory(ctx context.Context, symbol string, _ model.Period) ([]model.OHLCV, error) {
	m.mu.Lock()
	m.Calls[symbol]++
	bars, err := m.Bars[symbol], m.Errors[symbol]
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return bars, nil
}

// CallCount reports how often symbol was requested.
func (m *MockFetcher) CallCount(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[symbol]
}

// MockBars builds count gently trending daily bars ending at end.
func MockBars(basePrice float64, count int, end time.Time) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   end.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
