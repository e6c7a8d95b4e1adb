package utils

import "math"

// NormalizeL2 normalizes the slice in place to unit L2 norm.
// If the norm is zero, the slice is unchanged.
func NormalizeL2(x []float32) {
	var sum float32
	for _, v := range x {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range x {
		x[i] *= norm
	}
}

// MinMaxNormalize maps scores to [0,1] by min-max scaling in place.
// When all values are equal (including a single entry), every score becomes 1.0.
// An empty or nil map is returned unchanged.
func MinMaxNormalize(scores map[string]float64) map[string]float64 {
	if len(scores) == 0 {
		return scores
	}
	min, max := math.Inf(1), math.Inf(-1)
	for _, s := range scores {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	if max == min {
		for id := range scores {
			scores[id] = 1.0
		}
		return scores
	}
	for id, s := range scores {
		scores[id] = (s - min) / (max - min)
	}
	return scores
}
