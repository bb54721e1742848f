package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BreakoutRadar/internal/model"
	"BreakoutRadar/internal/screener"
)

func sampleRecords() []model.ResultRecord {
	return []model.ResultRecord{
		{Symbol: "NVDA", LatestClose: 131.456, Score: 18, RSI14: 71.26, VolumeRatio: 2.0, Status: model.StatusBreakout,
			Checks: []model.SignalCheck{{Name: "放量", Weight: 5, Hit: true}}},
		{Symbol: "AAPL", LatestClose: 201.2, Score: 3, RSI14: 44.04, VolumeRatio: 0.8765, Status: model.StatusWeak},
	}
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "131.46", Price(131.456))
	assert.Equal(t, "71.3", RSI(71.26))
	assert.Equal(t, "2x", VolumeRatio(2.0))
	assert.Equal(t, "0.88x", VolumeRatio(0.8765))
	assert.Equal(t, "1.5x", VolumeRatio(1.5))
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleRecords()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "短线评分")
	assert.Contains(t, lines[1], "NVDA")
	assert.Contains(t, lines[1], "18/18")
	assert.Contains(t, lines[1], "2x")
	assert.Contains(t, lines[1], "🚀爆发中")
	assert.Contains(t, lines[2], "0.88x")
	assert.Contains(t, lines[2], "弱势")
}

func TestFormatPrompt(t *testing.T) {
	p := FormatPrompt(sampleRecords()[0])
	assert.Contains(t, p, "NVDA")
	assert.Contains(t, p, "评分：18 (总分18)")
	assert.Contains(t, p, "RSI：71.3")
	assert.Contains(t, p, "放大 2x")
}

func TestWriteCandlestick(t *testing.T) {
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	series := &model.Series{Symbol: "NVDA", Bars: []model.OHLCV{
		{Time: day, Open: 1, High: 2, Low: 0.5, Close: 1.5},
		{Time: day.AddDate(0, 0, 1), Open: 1.5, High: 2.5, Low: 1, Close: 2},
	}}
	var buf bytes.Buffer
	require.NoError(t, WriteCandlestick(&buf, series))

	var fig chartFigure
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fig))
	require.Len(t, fig.Data, 1)
	assert.Equal(t, "candlestick", fig.Data[0].Type)
	assert.Equal(t, []string{"2025-03-03", "2025-03-04"}, fig.Data[0].X)
	assert.Equal(t, []float64{1.5, 2}, fig.Data[0].Close)
	assert.Equal(t, "plotly_dark", fig.Layout.Template)
	assert.False(t, fig.Layout.XAxis.RangeSlider.Visible)

	assert.Error(t, WriteCandlestick(&buf, &model.Series{Symbol: "X"}))
}

func TestFormatTelegram(t *testing.T) {
	r := &screener.Report{
		Params:    screener.Params{Period: model.Period3Mo},
		Ranked:    sampleRecords(),
		Failures:  []screener.SymbolFailure{{Symbol: "BAD<1>", Stage: screener.StageAcquire, Err: errors.New("no data")}},
		StartedAt: time.Date(2025, 6, 30, 16, 30, 0, 0, time.UTC),
	}
	msg := FormatTelegram(r)
	assert.Contains(t, msg, "2025-06-30 16:30 | 3mo")
	assert.Contains(t, msg, "1. <b>NVDA</b> 131.46 | 评分 18/18")
	assert.Contains(t, msg, "BAD&lt;1&gt; (acquire): no data")
	assert.Contains(t, msg, "深度聚焦: <b>NVDA</b>")
	assert.Contains(t, msg, "✓ 放量 (+5)")

	empty := FormatTelegram(&screener.Report{Params: screener.Params{Period: model.Period1Mo}})
	assert.Contains(t, empty, "没有可用结果")
}
