package model

// Status classifies a symbol by its breakout score.
type Status string

const (
	StatusBreakout      Status = "BREAKOUT"
	StatusConsolidating Status = "CONSOLIDATING"
	StatusWeak          Status = "WEAK"
)

// Label is the display text shown in tables and messages.
func (s Status) Label() string {
	switch s {
	case StatusBreakout:
		return "🚀爆发中"
	case StatusConsolidating:
		return "横盘蓄势"
	default:
		return "弱势"
	}
}

// SignalCheck is the outcome of one weighted rule.
type SignalCheck struct {
	Name   string
	Weight int
	Hit    bool
}

// ScoreResult is the output of the scoring engine.
type ScoreResult struct {
	Checks []SignalCheck
	Score  int
	Status Status
}

// ResultRecord is one ranked row of a screening run.
type ResultRecord struct {
	Symbol      string
	LatestClose float64
	Score       int
	RSI14       float64
	VolumeRatio float64 // latest volume / 5-bar average
	Status      Status
	Checks      []SignalCheck
}
