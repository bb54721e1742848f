package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"BreakoutRadar/internal/model"
)

const alpacaDataURL = "https://data.alpaca.markets"

// AlpacaFetcher implements Fetcher using the Alpaca market data v2 REST API.
type AlpacaFetcher struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Feed      string // "iex" for free accounts, "sip" for paid
	Client    *http.Client
	Now       func() time.Time
}

// NewAlpacaFetcher creates a new fetcher with optional proxy support.
func NewAlpacaFetcher(apiKey, apiSecret, proxyURL string) *AlpacaFetcher {
	return &AlpacaFetcher{
		BaseURL:   alpacaDataURL,
		APIKey:    apiKey,
		APISecret: apiSecret,
		Feed:      "iex",
		Client:    newHTTPClient(proxyURL),
		Now:       time.Now,
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

// alpacaBar is the JSON shape of one v2 stock bar. Pointers separate a
// missing column from a zero value.
type alpacaBar struct {
	Timestamp time.Time `json:"t"`
	Open      *float64  `json:"o"`
	High      *float64  `json:"h"`
	Low       *float64  `json:"l"`
	Close     *float64  `json:"c"`
	Volume    *float64  `json:"v"`
}

func (b alpacaBar) toOHLCV() (model.OHLCV, error) {
	cols := [...]struct {
		name string
		v    *float64
	}{{"o", b.Open}, {"h", b.High}, {"l", b.Low}, {"c", b.Close}, {"v", b.Volume}}
	for _, c := range cols {
		if c.v == nil {
			return model.OHLCV{}, fmt.Errorf("bar %s missing %q: %w", b.Timestamp.Format("2006-01-02"), c.name, ErrMalformed)
		}
	}
	return model.OHLCV{
		Time:   b.Timestamp.UTC(),
		Open:   *b.Open,
		High:   *b.High,
		Low:    *b.Low,
		Close:  *b.Close,
		Volume: *b.Volume,
	}, nil
}

type alpacaBarsPage struct {
	Bars          []alpacaBar `json:"bars"`
	NextPageToken *string     `json:"next_page_token"`
}

// maxAlpacaPages bounds pagination; 6mo of daily bars fits in one page.
const maxAlpacaPages = 10

func periodStart(now time.Time, period model.Period) time.Time {
	switch period {
	case model.Period1Mo:
		return now.AddDate(0, -1, 0)
	case model.Period6Mo:
		return now.AddDate(0, -6, 0)
	default:
		return now.AddDate(0, -3, 0)
	}
}

// FetchDailyHistory downloads daily bars for the period, following
// next_page_token until the provider reports no more pages.
func (f *AlpacaFetcher) FetchDailyHistory(ctx context.Context, symbol string, period model.Period) ([]model.OHLCV, error) {
	start := periodStart(f.Now().UTC(), period)
	var bars []model.OHLCV
	token := ""
	for page := 0; page < maxAlpacaPages; page++ {
		resp, err := f.fetchPage(ctx, symbol, start, token)
		if err != nil {
			return nil, err
		}
		for _, b := range resp.Bars {
			bar, err := b.toOHLCV()
			if err != nil {
				return nil, fmt.Errorf("alpaca %s: %w", symbol, err)
			}
			bars = append(bars, bar)
		}
		if resp.NextPageToken == nil || *resp.NextPageToken == "" {
			break
		}
		token = *resp.NextPageToken
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("alpaca %s: %w", symbol, ErrNoData)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (f *AlpacaFetcher) fetchPage(ctx context.Context, symbol string, start time.Time, pageToken string) (*alpacaBarsPage, error) {
	q := url.Values{}
	q.Set("timeframe", "1Day")
	q.Set("start", start.Format(time.RFC3339))
	q.Set("limit", "10000")
	q.Set("adjustment", "split")
	if f.Feed != "" {
		q.Set("feed", f.Feed)
	}
	if pageToken != "" {
		q.Set("page_token", pageToken)
	}
	endpoint := fmt.Sprintf("%s/v2/stocks/%s/bars?%s", f.BaseURL, url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("APCA-API-KEY-ID", f.APIKey)
	req.Header.Set("APCA-API-SECRET-KEY", f.APISecret)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, transportError(ctx, "alpaca", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("alpaca %s: status %d: %w", symbol, resp.StatusCode, ErrNoData)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return nil, statusError("alpaca", resp.StatusCode, body)
	}

	var page alpacaBarsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("alpaca decode: %v: %w", err, ErrMalformed)
	}
	return &page, nil
}
