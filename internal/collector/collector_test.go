package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BreakoutRadar/internal/model"
)

const chartOK = `{"chart":{"result":[{"timestamp":[1704378600,1704292200,1704465000],
"indicators":{"quote":[{"open":[101,100,null],"high":[103,102,null],"low":[99,98,null],
"close":[102,101,null],"volume":[2000,1000,null]}]}}],"error":null}}`

const chartMissingVolume = `{"chart":{"result":[{"timestamp":[1704292200,1704378600],
"indicators":{"quote":[{"open":[100,101],"high":[102,103],"low":[98,99],"close":[101,102]}]}}],"error":null}}`

const chartError = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`

func yahooServer(t *testing.T, body string, status int) *YahooFetcher {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "3mo", r.URL.Query().Get("range"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	return f
}

func TestYahooFetcher_DecodesAndSorts(t *testing.T) {
	f := yahooServer(t, chartOK, http.StatusOK)
	bars, err := f.FetchDailyHistory(context.Background(), "NVDA", model.Period3Mo)
	require.NoError(t, err)
	require.Len(t, bars, 2, "null bar should be skipped")
	assert.True(t, bars[0].Time.Before(bars[1].Time))
	assert.Equal(t, 101.0, bars[0].Close)
	assert.Equal(t, 2000.0, bars[1].Volume)
}

func TestYahooFetcher_MissingColumn(t *testing.T) {
	f := yahooServer(t, chartMissingVolume, http.StatusOK)
	_, err := f.FetchDailyHistory(context.Background(), "NVDA", model.Period3Mo)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestYahooFetcher_NoData(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"api error", chartError, http.StatusOK},
		{"not found", chartError, http.StatusNotFound},
		{"empty result", `{"chart":{"result":[],"error":null}}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := yahooServer(t, tt.body, tt.status)
			_, err := f.FetchDailyHistory(context.Background(), "ZZZZ", model.Period3Mo)
			assert.ErrorIs(t, err, ErrNoData)
		})
	}
}

func TestYahooFetcher_StatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		upstream bool
	}{
		{"bad gateway", http.StatusBadGateway, true},
		{"rate limited", http.StatusTooManyRequests, true},
		{"bad request", http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := yahooServer(t, "boom", tt.status)
			_, err := f.FetchDailyHistory(context.Background(), "NVDA", model.Period3Mo)
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrNoData)
			assert.Equal(t, tt.upstream, errors.Is(err, ErrUpstream))
		})
	}
}

func TestYahooFetcher_TransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	down := NewYahooFetcher("")
	down.BaseURL = srv.URL
	srv.Close()
	_, err := down.FetchDailyHistory(context.Background(), "NVDA", model.Period3Mo)
	assert.ErrorIs(t, err, ErrUpstream)

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer slow.Close()
	f := NewYahooFetcher("")
	f.BaseURL = slow.URL
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = f.FetchDailyHistory(ctx, "NVDA", model.Period3Mo)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrUpstream)
}

func TestAlpacaFetcher_Decodes(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/stocks/AAPL/bars", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("APCA-API-KEY-ID"))
		assert.Equal(t, "secret", r.Header.Get("APCA-API-SECRET-KEY"))
		assert.Equal(t, "1Day", r.URL.Query().Get("timeframe"))
		assert.Equal(t, "2025-03-30T12:00:00Z", r.URL.Query().Get("start"))
		_, _ = w.Write([]byte(`{"bars":[
			{"t":"2025-06-27T04:00:00Z","o":200,"h":205,"l":199,"c":204,"v":5000},
			{"t":"2025-06-26T04:00:00Z","o":198,"h":201,"l":197,"c":200,"v":4000}
		],"next_page_token":null}`))
	}))
	defer srv.Close()

	f := NewAlpacaFetcher("key", "secret", "")
	f.BaseURL = srv.URL
	f.Now = func() time.Time { return now }

	bars, err := f.FetchDailyHistory(context.Background(), "AAPL", model.Period3Mo)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 200.0, bars[0].Close)
	assert.Equal(t, 5000.0, bars[1].Volume)
}

func TestAlpacaFetcher_MissingColumn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"bars":[
			{"t":"2025-06-26T04:00:00Z","c":200},
			{"t":"2025-06-27T04:00:00Z","c":204}
		],"next_page_token":null}`))
	}))
	defer srv.Close()

	f := NewAlpacaFetcher("key", "secret", "")
	f.BaseURL = srv.URL
	s, err := NewCollector(f, time.Second).Acquire(context.Background(), "AAPL", model.Period3Mo)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Nil(t, s)
}

func TestAlpacaFetcher_FollowsPageToken(t *testing.T) {
	var (
		mu     sync.Mutex
		tokens []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := r.URL.Query().Get("page_token")
		mu.Lock()
		tokens = append(tokens, tok)
		mu.Unlock()
		if tok == "" {
			_, _ = w.Write([]byte(`{"bars":[{"t":"2025-06-26T04:00:00Z","o":1,"h":2,"l":1,"c":2,"v":10}],"next_page_token":"p2"}`))
			return
		}
		_, _ = w.Write([]byte(`{"bars":[{"t":"2025-06-25T04:00:00Z","o":1,"h":2,"l":1,"c":1.5,"v":20}],"next_page_token":null}`))
	}))
	defer srv.Close()

	f := NewAlpacaFetcher("key", "secret", "")
	f.BaseURL = srv.URL
	bars, err := f.FetchDailyHistory(context.Background(), "AAPL", model.Period6Mo)
	require.NoError(t, err)
	mu.Lock()
	assert.Equal(t, []string{"", "p2"}, tokens)
	mu.Unlock()
	require.Len(t, bars, 2)
	assert.Equal(t, 1.5, bars[0].Close)
	assert.Equal(t, 2.0, bars[1].Close)
}

func TestAlpacaFetcher_EmptyBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"bars":[],"next_page_token":null}`))
	}))
	defer srv.Close()

	f := NewAlpacaFetcher("key", "secret", "")
	f.BaseURL = srv.URL
	_, err := f.FetchDailyHistory(context.Background(), "AAPL", model.Period1Mo)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestCollector_Acquire_Normalizes(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 1, d, 21, 0, 0, 0, time.UTC) }
	m := NewMockFetcher()
	m.Bars["AMD"] = []model.OHLCV{
		{Time: day(3), Open: 1, High: 1, Low: 1, Close: 3, Volume: 10},
		{Time: day(2), Open: 1, High: 1, Low: 1, Close: 2, Volume: 10},
		{Time: day(3).Add(time.Hour), Open: 1, High: 1, Low: 1, Close: 4, Volume: 10},
	}
	c := NewCollector(m, time.Second)

	s, err := c.Acquire(context.Background(), "AMD", model.Period3Mo)
	require.NoError(t, err)
	require.Len(t, s.Bars, 2)
	assert.Equal(t, 2.0, s.Bars[0].Close)
	assert.Equal(t, 4.0, s.Bars[1].Close, "later duplicate wins")
	assert.Equal(t, "AMD", s.Symbol)
	assert.Equal(t, model.Period3Mo, s.Period)
}

func TestCollector_Acquire_Failures(t *testing.T) {
	m := NewMockFetcher()
	m.Bars["EMPTY"] = nil
	m.Bars["BAD"] = []model.OHLCV{{Time: time.Now(), Open: 1, High: 1, Low: 1, Close: -5, Volume: 1}}
	m.Errors["DOWN"] = errors.New("connection refused")
	c := NewCollector(m, time.Second)

	_, err := c.Acquire(context.Background(), "EMPTY", model.Period3Mo)
	assert.ErrorIs(t, err, ErrNoData)
	_, err = c.Acquire(context.Background(), "BAD", model.Period3Mo)
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = c.Acquire(context.Background(), "DOWN", model.Period3Mo)
	assert.ErrorContains(t, err, "connection refused")
}

func TestGuarded_BreakerOpens(t *testing.T) {
	m := NewMockFetcher()
	m.Errors["X"] = fmt.Errorf("yahoo: status 503: %w", ErrUpstream)
	g := NewGuarded(m, GuardOptions{TripAfter: 3, Cooldown: time.Minute})

	for i := 0; i < 3; i++ {
		_, err := g.FetchDailyHistory(context.Background(), "X", model.Period3Mo)
		require.Error(t, err)
	}
	_, err := g.FetchDailyHistory(context.Background(), "X", model.Period3Mo)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, m.CallCount("X"))
}

func TestGuarded_SymbolErrorsDoNotTrip(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"no data", ErrNoData},
		{"malformed", fmt.Errorf("bar missing \"v\": %w", ErrMalformed)},
		{"symbol timeout", fmt.Errorf("yahoo fetch: %w", context.DeadlineExceeded)},
		{"bad request", errors.New("yahoo: status 400")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMockFetcher()
			m.Errors["SYM"] = tt.err
			g := NewGuarded(m, GuardOptions{TripAfter: 2, Cooldown: time.Minute})
			for i := 0; i < 5; i++ {
				_, err := g.FetchDailyHistory(context.Background(), "SYM", model.Period3Mo)
				assert.ErrorIs(t, err, tt.err)
				assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
			}
			assert.Equal(t, 5, m.CallCount("SYM"))
		})
	}
}

func TestGuarded_PassesBars(t *testing.T) {
	m := NewMockFetcher()
	m.Bars["OK"] = MockBars(100, 40, time.Now())
	g := NewGuarded(m, DefaultGuardOptions())

	bars, err := g.FetchDailyHistory(context.Background(), "OK", model.Period3Mo)
	require.NoError(t, err)
	assert.Len(t, bars, 40)
	assert.Equal(t, "mock", g.Name())
}
