package exercisetype

import (
	"math"
	"time"

	"github.com/mansoorceksport/liftlog/internal/domain"
)

// StaticHold is isometric work (plank, dead hang) measured in seconds
type StaticHold struct {
	unit string
}

func NewStaticHold(unit string) *StaticHold {
	return &StaticHold{unit: unit}
}

func (*StaticHold) isStrategy() {}

func (*StaticHold) Type() domain.ExerciseType { return domain.ExerciseTypeStaticHold }

func (*StaticHold) CanCalculate1RM() bool { return false }

func (*StaticHold) ChartType() ChartType { return ChartVolumeProgression }

func (*StaticHold) RequiredFormFields(domain.UserPreferences) []string {
	return []string{FieldHoldSeconds}
}

func (*StaticHold) ValidationRules(domain.UserPreferences) Rules {
	return Rules{
		FieldHoldSeconds: {Required: true, Min: floatPtr(0), Max: &maxHold},
		FieldWeight:      {Min: floatPtr(0), Max: &maxWeight},
	}
}

func (*StaticHold) NormalizeLogInput(in SetInput) SetInput {
	in.BandColor = nil
	in.Reps = nil
	return in
}

func (*StaticHold) NormalizeExerciseInput(in ExerciseInput) ExerciseInput {
	in.ExerciseType = domain.ExerciseTypeStaticHold
	in.BandType = nil
	in.IsBodyweight = false
	return in
}

func (*StaticHold) RawDisplayWeight(set domain.LiftSet) float64 {
	return set.WeightValue()
}

func (*StaticHold) CurrentMetrics(log *domain.LiftLog) domain.PerformanceMetrics {
	var m domain.PerformanceMetrics
	for _, s := range log.Sets {
		if h := s.HoldValue(); h > m.BestHold {
			m.BestHold = h
		}
	}
	return m
}

func (*StaticHold) ApplicablePRTypes() []domain.PRType {
	return []domain.PRType{domain.PRTypeTime}
}

func (*StaticHold) Improves(_ domain.PRType, candidate, existing float64) bool {
	return candidate > existing
}

func (s *StaticHold) FormatBeaten(rec *domain.PersonalRecord, _ *domain.LiftLog) domain.DisplayRow {
	return beatenRow(s, rec)
}

func (s *StaticHold) FormatStanding(rec *domain.PersonalRecord, current domain.PerformanceMetrics) domain.DisplayRow {
	return standingRow(s, rec, current)
}

func (s *StaticHold) label(prType domain.PRType, disc *float64) string {
	return defaultLabel(prType, disc, s.unit)
}

func (*StaticHold) value(_ domain.PRType, _ *float64, v float64) string {
	return formatSeconds(v)
}

func (*StaticHold) note(domain.PRType) string { return "" }

// formatSeconds renders 90 as "1m30s" and 12.5 as "12.5s"
func formatSeconds(v float64) string {
	d := time.Duration(math.Round(v*10) / 10 * float64(time.Second))
	return d.String()
}
