package exercisetype

import (
	"github.com/mansoorceksport/liftlog/internal/domain"
)

// Cardio tracks distance units or rounds in the reps field, with an
// optional duration in hold_seconds.
type Cardio struct{}

func NewCardio() *Cardio {
	return &Cardio{}
}

func (*Cardio) isStrategy() {}

func (*Cardio) Type() domain.ExerciseType { return domain.ExerciseTypeCardio }

func (*Cardio) CanCalculate1RM() bool { return false }

func (*Cardio) ChartType() ChartType { return ChartVolumeProgression }

func (*Cardio) RequiredFormFields(domain.UserPreferences) []string {
	return []string{FieldReps}
}

func (*Cardio) ValidationRules(domain.UserPreferences) Rules {
	return Rules{
		FieldReps:        {Required: true, Integer: true, Min: floatPtr(0), Max: &maxReps},
		FieldHoldSeconds: {Min: floatPtr(0), Max: &maxHold},
	}
}

func (*Cardio) NormalizeLogInput(in SetInput) SetInput {
	in.Weight = nil
	in.BandColor = nil
	return in
}

func (*Cardio) NormalizeExerciseInput(in ExerciseInput) ExerciseInput {
	in.ExerciseType = domain.ExerciseTypeCardio
	in.BandType = nil
	in.IsBodyweight = false
	return in
}

func (*Cardio) RawDisplayWeight(domain.LiftSet) float64 { return 0 }

func (*Cardio) CurrentMetrics(log *domain.LiftLog) domain.PerformanceMetrics {
	var m domain.PerformanceMetrics
	for _, s := range log.Sets {
		if r := s.RepsValue(); r > 0 {
			m.TotalReps += r
		}
		if h := s.HoldValue(); h > m.BestHold {
			m.BestHold = h
		}
	}
	m.TotalVolume = float64(m.TotalReps)
	return m
}

func (*Cardio) ApplicablePRTypes() []domain.PRType {
	return []domain.PRType{domain.PRTypeVolume}
}

func (*Cardio) Improves(_ domain.PRType, candidate, existing float64) bool {
	return candidate > existing
}

func (c *Cardio) FormatBeaten(rec *domain.PersonalRecord, _ *domain.LiftLog) domain.DisplayRow {
	return beatenRow(c, rec)
}

func (c *Cardio) FormatStanding(rec *domain.PersonalRecord, current domain.PerformanceMetrics) domain.DisplayRow {
	return standingRow(c, rec, current)
}

func (*Cardio) label(prType domain.PRType, _ *float64) string {
	if prType == domain.PRTypeVolume {
		return "Total Distance"
	}
	return defaultLabel(prType, nil, "")
}

func (*Cardio) value(_ domain.PRType, _ *float64, v float64) string {
	return FormatNumber(v)
}

func (*Cardio) note(domain.PRType) string { return "" }
