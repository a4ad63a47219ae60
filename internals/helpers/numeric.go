package helper

import "math"

// Round2: 2 desimal, half away from zero (math.Round).
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Percent: part/total*100 (2 desimal). total 0 → 0.
func Percent(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(float64(part) * 100 / float64(total))
}
