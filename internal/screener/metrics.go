package screener

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors updated by the pipeline.
type Metrics struct {
	Symbols      *prometheus.CounterVec
	Scans        prometheus.Counter
	ScanDuration prometheus.Histogram
	TopScore     prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Symbols: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "radar_symbols_total",
				Help: "Symbols processed by outcome (scored, or the stage they failed in)",
			},
			[]string{"outcome"},
		),
		Scans: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "radar_scans_total",
				Help: "Total number of screening runs",
			},
		),
		ScanDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "radar_scan_duration_seconds",
				Help:    "Wall time of a screening run",
				Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
		),
		TopScore: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "radar_top_score",
				Help: "Score of the top-ranked symbol in the latest run",
			},
		),
	}
	reg.MustRegister(m.Symbols, m.Scans, m.ScanDuration, m.TopScore)
	return m
}

func (m *Metrics) observeOutcome(o Outcome) {
	if m == nil {
		return
	}
	label := "scored"
	if o.Failure != nil {
		label = string(o.Failure.Stage)
	}
	m.Symbols.WithLabelValues(label).Inc()
}

func (m *Metrics) observeRun(r *Report) {
	if m == nil {
		return
	}
	m.Scans.Inc()
	m.ScanDuration.Observe(r.Duration.Seconds())
	if top, ok := r.Top(); ok {
		m.TopScore.Set(float64(top.Score))
	}
}
