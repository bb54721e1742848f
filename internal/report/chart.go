package report

import (
	"encoding/json"
	"fmt"
	"io"

	"BreakoutRadar/internal/model"
)

type candlestickTrace struct {
	Type  string    `json:"type"`
	Name  string    `json:"name"`
	X     []string  `json:"x"`
	Open  []float64 `json:"open"`
	High  []float64 `json:"high"`
	Low   []float64 `json:"low"`
	Close []float64 `json:"close"`
}

type chartLayout struct {
	Title    string `json:"title"`
	Template string `json:"template"`
	XAxis    struct {
		RangeSlider struct {
			Visible bool `json:"visible"`
		} `json:"rangeslider"`
	} `json:"xaxis"`
}

type chartFigure struct {
	Data   []candlestickTrace `json:"data"`
	Layout chartLayout        `json:"layout"`
}

// WriteCandlestick writes the series as a Plotly candlestick figure.
func WriteCandlestick(w io.Writer, series *model.Series) error {
	if series == nil || len(series.Bars) == 0 {
		return fmt.Errorf("chart: empty series")
	}
	n := len(series.Bars)
	trace := candlestickTrace{
		Type:  "candlestick",
		Name:  series.Symbol,
		X:     make([]string, n),
		Open:  make([]float64, n),
		High:  make([]float64, n),
		Low:   make([]float64, n),
		Close: make([]float64, n),
	}
	for i, b := range series.Bars {
		trace.X[i] = b.Time.Format("2006-01-02")
		trace.Open[i] = b.Open
		trace.High[i] = b.High
		trace.Low[i] = b.Low
		trace.Close[i] = b.Close
	}

	fig := chartFigure{Data: []candlestickTrace{trace}}
	fig.Layout.Title = fmt.Sprintf("%s 最近走势", series.Symbol)
	fig.Layout.Template = "plotly_dark"

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fig)
}
