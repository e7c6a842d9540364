package exercisetype

import (
	"fmt"

	"github.com/mansoorceksport/liftlog/internal/domain"
	"github.com/mansoorceksport/liftlog/internal/strength"
)

var (
	maxWeight = 2000.0
	maxReps   = 1000.0
	maxHold   = 86400.0
)

// Regular is free-weight work tracked by weight and reps
type Regular struct {
	unit string
}

func NewRegular(unit string) *Regular {
	return &Regular{unit: unit}
}

func (*Regular) isStrategy() {}

func (*Regular) Type() domain.ExerciseType { return domain.ExerciseTypeRegular }

func (*Regular) CanCalculate1RM() bool { return true }

func (*Regular) ChartType() ChartType { return ChartOneRepMax }

func (*Regular) RequiredFormFields(domain.UserPreferences) []string {
	return []string{FieldWeight, FieldReps}
}

func (*Regular) ValidationRules(domain.UserPreferences) Rules {
	return Rules{
		FieldWeight: {Required: true, Min: floatPtr(0), Max: &maxWeight},
		FieldReps:   {Required: true, Integer: true, Min: floatPtr(0), Max: &maxReps},
	}
}

func (*Regular) NormalizeLogInput(in SetInput) SetInput {
	in.BandColor = nil
	in.HoldSeconds = nil
	return in
}

func (*Regular) NormalizeExerciseInput(in ExerciseInput) ExerciseInput {
	in.ExerciseType = domain.ExerciseTypeRegular
	in.BandType = nil
	in.IsBodyweight = false
	return in
}

func (*Regular) RawDisplayWeight(set domain.LiftSet) float64 {
	return set.WeightValue()
}

func (*Regular) CurrentMetrics(log *domain.LiftLog) domain.PerformanceMetrics {
	return loadMetrics(log.Sets)
}

func (*Regular) ApplicablePRTypes() []domain.PRType {
	return []domain.PRType{
		domain.PRTypeOneRM,
		domain.PRTypeVolume,
		domain.PRTypeRepSpecific,
		domain.PRTypeHypertrophy,
	}
}

func (*Regular) Improves(_ domain.PRType, candidate, existing float64) bool {
	return candidate > existing
}

func (r *Regular) FormatBeaten(rec *domain.PersonalRecord, _ *domain.LiftLog) domain.DisplayRow {
	return beatenRow(r, rec)
}

func (r *Regular) FormatStanding(rec *domain.PersonalRecord, current domain.PerformanceMetrics) domain.DisplayRow {
	return standingRow(r, rec, current)
}

func (r *Regular) label(prType domain.PRType, disc *float64) string {
	return defaultLabel(prType, disc, r.unit)
}

func (r *Regular) value(prType domain.PRType, _ *float64, v float64) string {
	if prType == domain.PRTypeHypertrophy {
		return fmt.Sprintf("%s reps", FormatNumber(v))
	}
	return FormatNumber(v) + " " + r.unit
}

func (*Regular) note(domain.PRType) string { return "" }

// loadMetrics extracts weight-based metrics. Sets without positive weight and
// reps count toward total reps only.
func loadMetrics(sets []domain.LiftSet) domain.PerformanceMetrics {
	m := domain.PerformanceMetrics{Best1RM: strength.BestEstimate(sets)}
	repBest := make(map[int]float64)
	weightBest := make(map[float64]int)
	for _, s := range sets {
		w, r := s.WeightValue(), s.RepsValue()
		if r > 0 {
			m.TotalReps += r
		}
		m.TotalVolume += strength.Volume(w, r)
		if w <= 0 || r <= 0 {
			continue
		}
		if w > repBest[r] {
			repBest[r] = w
		}
		if r > weightBest[w] {
			weightBest[w] = r
		}
	}
	m.RepBests = sortedRepBests(repBest)
	m.WeightBests = sortedWeightBests(weightBest)
	return m
}
