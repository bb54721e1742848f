package strategy

import "BreakoutRadar/internal/model"

// Signal weights. Their sum is MaxScore.
const (
	WeightVolumeSurge  = 5
	WeightBandBreakout = 6
	WeightMomentum     = 4
	WeightTrendSupport = 3

	// VolumeSurgeMultiple is how far above the 5-bar average the latest
	// volume must be to count as a surge.
	VolumeSurgeMultiple = 1.5
)

// Input bundles what the four rules look at.
type Input struct {
	Latest         model.IndicatorRow
	Previous       model.IndicatorRow
	VolumeBaseline float64
	LatestVolume   float64
}

type rule struct {
	name   string
	weight int
	check  func(in Input) bool
}

var rules = []rule{
	{"放量", WeightVolumeSurge, checkVolumeSurge},
	{"突破布林上轨", WeightBandBreakout, checkBandBreakout},
	{"MACD动能增强", WeightMomentum, checkMomentum},
	{"站稳EMA5", WeightTrendSupport, checkTrendSupport},
}

func checkVolumeSurge(in Input) bool {
	return in.LatestVolume > in.VolumeBaseline*VolumeSurgeMultiple
}

func checkBandBreakout(in Input) bool {
	return in.Latest.Close > in.Latest.BBUpper
}

func checkMomentum(in Input) bool {
	return in.Latest.MACDHist > in.Previous.MACDHist
}

func checkTrendSupport(in Input) bool {
	return in.Latest.Close > in.Latest.EMAFast
}
