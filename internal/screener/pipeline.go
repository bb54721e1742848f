package screener

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"BreakoutRadar/internal/calculator"
	"BreakoutRadar/internal/collector"
	"BreakoutRadar/internal/model"
	"BreakoutRadar/internal/strategy"
)

// SpotlightPeriod is the window fetched for the top symbol's chart.
const SpotlightPeriod = model.Period3Mo

// Params is the immutable input of one run.
type Params struct {
	Symbols []string
	Period  model.Period
}

// Outcome is the tagged per-symbol result: exactly one of Record or Failure is set.
type Outcome struct {
	Symbol  string
	Record  *model.ResultRecord
	Failure *SymbolFailure
}

// Report is the result of a run.
type Report struct {
	Params    Params
	Ranked    []model.ResultRecord
	Failures  []SymbolFailure
	StartedAt time.Time
	Duration  time.Duration
}

// Top returns the highest-ranked record.
func (r *Report) Top() (model.ResultRecord, bool) {
	if r == nil || len(r.Ranked) == 0 {
		return model.ResultRecord{}, false
	}
	return r.Ranked[0], true
}

// Pipeline screens a list of symbols.
type Pipeline struct {
	Collector   *collector.Collector
	Concurrency int
	Metrics     *Metrics
}

// NewPipeline creates a Pipeline. concurrency <= 0 means one symbol at a time.
func NewPipeline(col *collector.Collector, concurrency int, metrics *Metrics) *Pipeline {
	return &Pipeline{Collector: col, Concurrency: concurrency, Metrics: metrics}
}

// Run processes every symbol, isolates failures, and ranks the records by
// score descending with ties kept in input order. An empty ranking returns
// the report together with ErrNoResults.
func (p *Pipeline) Run(ctx context.Context, params Params) (*Report, error) {
	if _, err := model.ParsePeriod(string(params.Period)); err != nil {
		return nil, err
	}
	report := &Report{Params: params, StartedAt: time.Now()}
	log.Info().Int("symbols", len(params.Symbols)).Str("period", string(params.Period)).Msg("scan started")

	outcomes := make([]Outcome, len(params.Symbols))
	var g errgroup.Group
	limit := p.Concurrency
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)
	for i, sym := range params.Symbols {
		g.Go(func() error {
			outcomes[i] = p.Evaluate(ctx, sym, params.Period)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	records := make([]model.ResultRecord, 0, len(outcomes))
	for _, o := range outcomes {
		p.Metrics.observeOutcome(o)
		if o.Failure != nil {
			log.Warn().Err(o.Failure.Err).Str("symbol", o.Symbol).Str("stage", string(o.Failure.Stage)).
				Msg("symbol skipped")
			report.Failures = append(report.Failures, *o.Failure)
			continue
		}
		records = append(records, *o.Record)
	}
	report.Ranked = Rank(records)
	report.Duration = time.Since(report.StartedAt)
	p.Metrics.observeRun(report)

	if len(report.Ranked) == 0 {
		log.Error().Int("failures", len(report.Failures)).Msg("scan produced no results")
		return report, fmt.Errorf("%w: all %d symbols failed", ErrNoResults, len(params.Symbols))
	}
	top, _ := report.Top()
	log.Info().Int("scored", len(report.Ranked)).Int("failed", len(report.Failures)).
		Str("top", top.Symbol).Int("top_score", top.Score).Dur("took", report.Duration).Msg("scan finished")
	return report, nil
}

// Evaluate runs acquisition, indicators and scoring for one symbol.
func (p *Pipeline) Evaluate(ctx context.Context, symbol string, period model.Period) Outcome {
	fail := func(stage Stage, err error) Outcome {
		return Outcome{Symbol: symbol, Failure: &SymbolFailure{Symbol: symbol, Stage: stage, Err: err}}
	}

	series, err := p.Collector.Acquire(ctx, symbol, period)
	if err != nil {
		return fail(StageAcquire, fmt.Errorf("%w: %w", ErrAcquisition, err))
	}
	rec, stage, err := ScoreSeries(series)
	if err != nil {
		return fail(stage, err)
	}
	return Outcome{Symbol: symbol, Record: &rec}
}

// ScoreSeries computes the result record for an already acquired series.
func ScoreSeries(series *model.Series) (model.ResultRecord, Stage, error) {
	rows, err := calculator.Compute(series)
	if err != nil {
		return model.ResultRecord{}, StageIndicators, err
	}
	idx, err := calculator.LatestPair(rows)
	if err != nil {
		return model.ResultRecord{}, StageIndicators, err
	}

	volumes := make([]float64, len(series.Bars))
	for i, b := range series.Bars {
		volumes[i] = b.Volume
	}
	baseline, err := calculator.TrailingVolumeAverage(volumes, idx, calculator.VolumeWindow)
	if err != nil {
		return model.ResultRecord{}, StageScore, fmt.Errorf("%w: %v", ErrDataInsufficient, err)
	}
	latestVolume := volumes[idx]

	latest, prev := rows[idx], rows[idx-1]
	res := strategy.Score(latest, prev, baseline, latestVolume)

	ratio := 0.0
	if baseline > 0 {
		ratio = latestVolume / baseline
	}
	return model.ResultRecord{
		Symbol:      series.Symbol,
		LatestClose: latest.Close,
		Score:       res.Score,
		RSI14:       latest.RSI14,
		VolumeRatio: ratio,
		Status:      res.Status,
		Checks:      res.Checks,
	}, "", nil
}

// Rank returns a copy of records sorted by score descending. Equal scores
// keep their input order.
func Rank(records []model.ResultRecord) []model.ResultRecord {
	out := make([]model.ResultRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Spotlight acquires a fresh fixed-window series for the chart of the top symbol.
func (p *Pipeline) Spotlight(ctx context.Context, symbol string) (*model.Series, error) {
	series, err := p.Collector.Acquire(ctx, symbol, SpotlightPeriod)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAcquisition, err)
	}
	return series, nil
}
