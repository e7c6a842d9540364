package exercisetype

import (
	"github.com/mansoorceksport/liftlog/internal/domain"
)

// Bodyweight is rep-based work where "weight" is optional extra load
// (vest, belt). Without extra load the volume is the raw rep count.
type Bodyweight struct {
	unit string
}

func NewBodyweight(unit string) *Bodyweight {
	return &Bodyweight{unit: unit}
}

func (*Bodyweight) isStrategy() {}

func (*Bodyweight) Type() domain.ExerciseType { return domain.ExerciseTypeBodyweight }

// CanCalculate1RM is true for the type; a performance only yields a 1RM when
// some set carries extra weight.
func (*Bodyweight) CanCalculate1RM() bool { return true }

func (*Bodyweight) ChartType() ChartType { return ChartBodyweightProgression }

func (*Bodyweight) RequiredFormFields(prefs domain.UserPreferences) []string {
	if prefs.ShowExtraWeight {
		return []string{FieldWeight, FieldReps}
	}
	return []string{FieldReps}
}

func (*Bodyweight) ValidationRules(prefs domain.UserPreferences) Rules {
	return Rules{
		FieldWeight: {Required: prefs.ShowExtraWeight, Min: floatPtr(0), Max: &maxWeight},
		FieldReps:   {Required: true, Integer: true, Min: floatPtr(0), Max: &maxReps},
	}
}

// NormalizeLogInput defaults a missing extra weight to 0
func (*Bodyweight) NormalizeLogInput(in SetInput) SetInput {
	in.BandColor = nil
	in.HoldSeconds = nil
	if in.Weight == nil {
		in.Weight = floatPtr(0)
	}
	return in
}

func (*Bodyweight) NormalizeExerciseInput(in ExerciseInput) ExerciseInput {
	in.ExerciseType = domain.ExerciseTypeBodyweight
	in.BandType = nil
	in.IsBodyweight = true
	return in
}

func (*Bodyweight) RawDisplayWeight(set domain.LiftSet) float64 {
	return set.WeightValue()
}

func (*Bodyweight) CurrentMetrics(log *domain.LiftLog) domain.PerformanceMetrics {
	if hasExtraWeight(log.Sets) {
		m := loadMetrics(log.Sets)
		m.WeightBests = nil
		return m
	}
	var m domain.PerformanceMetrics
	for _, s := range log.Sets {
		if r := s.RepsValue(); r > 0 {
			m.TotalReps += r
		}
	}
	m.TotalVolume = float64(m.TotalReps)
	return m
}

func (*Bodyweight) ApplicablePRTypes() []domain.PRType {
	return []domain.PRType{domain.PRTypeOneRM, domain.PRTypeVolume, domain.PRTypeRepSpecific}
}

func (*Bodyweight) Improves(_ domain.PRType, candidate, existing float64) bool {
	return candidate > existing
}

func (b *Bodyweight) FormatBeaten(rec *domain.PersonalRecord, _ *domain.LiftLog) domain.DisplayRow {
	return beatenRow(b, rec)
}

func (b *Bodyweight) FormatStanding(rec *domain.PersonalRecord, current domain.PerformanceMetrics) domain.DisplayRow {
	return standingRow(b, rec, current)
}

func (b *Bodyweight) label(prType domain.PRType, disc *float64) string {
	return defaultLabel(prType, disc, b.unit)
}

func (b *Bodyweight) value(prType domain.PRType, _ *float64, v float64) string {
	switch prType {
	case domain.PRTypeOneRM, domain.PRTypeRepSpecific:
		return "+" + FormatNumber(v) + " " + b.unit
	}
	return FormatNumber(v)
}

func (*Bodyweight) note(domain.PRType) string { return "" }

func hasExtraWeight(sets []domain.LiftSet) bool {
	for _, s := range sets {
		if s.WeightValue() > 0 && s.RepsValue() > 0 {
			return true
		}
	}
	return false
}
