package validate

import "math"

// complexityScore folds the structural statistics into a single 1..10
// figure. Each factor is capped so no single dimension dominates.
func complexityScore(s Statistics) int {
	score := capped(float64(s.NodeCount)/50, 3) +
		capped(float64(s.MaxDepth)/15, 2) +
		capped(float64(s.ExpressionCount)/20, 2) +
		capped(float64(s.RepeatCount)*0.5, 2) +
		capped(float64(s.ImageCount)/10, 1)

	n := int(math.Round(score))
	if n < 1 {
		n = 1
	}
	if n > 10 {
		n = 10
	}
	return n
}

func capped(v, max float64) float64 {
	if v > max {
		return max
	}
	return v
}
