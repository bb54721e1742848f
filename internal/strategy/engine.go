package strategy

import "BreakoutRadar/internal/model"

// MaxScore is the score when every rule fires.
const MaxScore = WeightVolumeSurge + WeightBandBreakout + WeightMomentum + WeightTrendSupport

// Tiers maps minimum scores to a status, highest first.
var Tiers = []struct {
	MinScore int
	Status   model.Status
}{
	{12, model.StatusBreakout},
	{5, model.StatusConsolidating},
}

// DefaultStatus applies below the lowest tier.
const DefaultStatus = model.StatusWeak

// ClassifyStatus maps a score to its status tier.
func ClassifyStatus(score int) model.Status {
	for _, t := range Tiers {
		if score >= t.MinScore {
			return t.Status
		}
	}
	return DefaultStatus
}

// Score evaluates the four rules against the latest and previous rows.
// Both rows must be fully defined; the caller guarantees this.
func Score(latest, previous model.IndicatorRow, volumeBaseline, latestVolume float64) model.ScoreResult {
	in := Input{
		Latest:         latest,
		Previous:       previous,
		VolumeBaseline: volumeBaseline,
		LatestVolume:   latestVolume,
	}

	checks := make([]model.SignalCheck, 0, len(rules))
	score := 0
	for _, r := range rules {
		hit := r.check(in)
		if hit {
			score += r.weight
		}
		checks = append(checks, model.SignalCheck{Name: r.name, Weight: r.weight, Hit: hit})
	}

	return model.ScoreResult{
		Checks: checks,
		Score:  score,
		Status: ClassifyStatus(score),
	}
}
