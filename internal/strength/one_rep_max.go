// Package strength holds the pure numeric formulas used by record detection.
package strength

import "github.com/mansoorceksport/liftlog/internal/domain"

// Estimate returns the estimated one-rep max using the Epley formula.
// If reps == 1, returns the weight directly.
// Otherwise: weight * (1 + reps/30)
func Estimate(weight float64, reps int) float64 {
	if reps <= 0 || weight <= 0 {
		return 0
	}
	if reps == 1 {
		return weight
	}
	return weight * (1 + float64(reps)/30.0)
}

// BestEstimate is the highest Estimate over all sets of a performance
func BestEstimate(sets []domain.LiftSet) float64 {
	var best float64
	for _, s := range sets {
		if e := Estimate(s.WeightValue(), s.RepsValue()); e > best {
			best = e
		}
	}
	return best
}

// Volume calculates the volume of a set (weight * reps)
func Volume(weight float64, reps int) float64 {
	if reps <= 0 || weight <= 0 {
		return 0
	}
	return weight * float64(reps)
}
