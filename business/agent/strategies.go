package agent

import "math/rand"

// ThresholdFunc decides, from the observed expected utility alone, whether a
// candidate good is worth consuming.
type ThresholdFunc func(expected float64) bool

// MeanThreshold consumes when the expected utility reaches the utility
// distribution's mean. This is the documented default.
func MeanThreshold(mean float64) ThresholdFunc {
	return func(expected float64) bool {
		return expected >= mean
	}
}

// FixedCutoff consumes when the expected utility reaches a fixed value.
func FixedCutoff(cutoff float64) ThresholdFunc {
	return func(expected float64) bool {
		return expected >= cutoff
	}
}

// RatingFunc maps the true utility of a consumed good to a review score.
// Implementations may draw noise from rng.
type RatingFunc func(trueUtil float64, rng *rand.Rand) float64

// ThreeLevelRating is the default -1/0/+1 scale: positive above mean+std,
// negative below mean-std, neutral in between.
func ThreeLevelRating(mean, std float64) RatingFunc {
	return func(trueUtil float64, _ *rand.Rand) float64 {
		switch {
		case trueUtil > mean+std:
			return 1
		case trueUtil < mean-std:
			return -1
		default:
			return 0
		}
	}
}

// ScaledRating maps true utility onto a 1..scale star rating by clamping the
// z-score of the utility around the distribution mean.
func ScaledRating(scale int, mean, std float64) RatingFunc {
	return func(trueUtil float64, _ *rand.Rand) float64 {
		mid := float64(scale+1) / 2
		star := mid + (trueUtil-mean)/std*(mid-1)/2
		rounded := float64(int(star + 0.5))
		if rounded < 1 {
			rounded = 1
		}
		if rounded > float64(scale) {
			rounded = float64(scale)
		}
		return rounded
	}
}

// NoisyRating perturbs another rating function with gaussian noise, then
// clamps back onto the scale bounds.
func NoisyRating(base RatingFunc, noiseStd, min, max float64) RatingFunc {
	return func(trueUtil float64, rng *rand.Rand) float64 {
		score := base(trueUtil, rng)
		if noiseStd > 0 {
			score += noiseStd * rng.NormFloat64()
			if score < min {
				score = min
			}
			if score > max {
				score = max
			}
		}
		return score
	}
}
