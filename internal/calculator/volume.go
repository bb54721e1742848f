package calculator

import "errors"

// TrailingVolumeAverage returns the mean volume of the `window` bars ending
// at index end (inclusive).
func TrailingVolumeAverage(volumes []float64, end, window int) (float64, error) {
	if window <= 0 {
		return 0, errors.New("window must be positive")
	}
	if end < 0 || end >= len(volumes) {
		return 0, errors.New("end index out of range")
	}
	if end+1 < window {
		return 0, errors.New("not enough data for volume average")
	}
	sum := 0.0
	for i := end - window + 1; i <= end; i++ {
		sum += volumes[i]
	}
	return sum / float64(window), nil
}
