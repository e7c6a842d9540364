package exercisetype

import (
	"strings"

	"github.com/mansoorceksport/liftlog/internal/domain"
)

// Banded is elastic-band work. Resistance bands make the lift harder, so a
// heavier band is better. Assistance bands make it easier, so for rep
// records a lighter band is the improvement.
type Banded struct {
	bandType string
	bands    BandTable
}

func NewBanded(bandType string, bands BandTable) *Banded {
	return &Banded{bandType: bandType, bands: bands}
}

func (*Banded) isStrategy() {}

func (b *Banded) Type() domain.ExerciseType {
	if b.bandType == domain.BandTypeAssistance {
		return domain.ExerciseTypeBandedAssistance
	}
	return domain.ExerciseTypeBandedResistance
}

// IsAssistance reports whether lower resistance is the harder variant
func (b *Banded) IsAssistance() bool {
	return b.bandType == domain.BandTypeAssistance
}

func (*Banded) CanCalculate1RM() bool { return false }

func (*Banded) ChartType() ChartType { return ChartVolumeProgression }

func (*Banded) RequiredFormFields(domain.UserPreferences) []string {
	return []string{FieldBandColor, FieldReps}
}

func (b *Banded) ValidationRules(domain.UserPreferences) Rules {
	return Rules{
		FieldBandColor: {Required: true, OneOf: b.bands.Colors()},
		FieldReps:      {Required: true, Integer: true, Min: floatPtr(0), Max: &maxReps},
	}
}

func (*Banded) NormalizeLogInput(in SetInput) SetInput {
	in.Weight = nil
	in.HoldSeconds = nil
	if in.BandColor != nil {
		color := strings.ToLower(strings.TrimSpace(*in.BandColor))
		in.BandColor = &color
	}
	return in
}

func (b *Banded) NormalizeExerciseInput(in ExerciseInput) ExerciseInput {
	bandType := b.bandType
	in.ExerciseType = b.Type()
	in.BandType = &bandType
	in.IsBodyweight = false
	return in
}

// RawDisplayWeight maps the band color to its configured resistance
func (b *Banded) RawDisplayWeight(set domain.LiftSet) float64 {
	r, _ := b.bands.Resistance(set.BandColorValue())
	return r
}

func (b *Banded) CurrentMetrics(log *domain.LiftLog) domain.PerformanceMetrics {
	var m domain.PerformanceMetrics
	repBest := make(map[int]float64)
	for _, s := range log.Sets {
		res := b.RawDisplayWeight(s)
		reps := s.RepsValue()
		if reps <= 0 {
			continue
		}
		m.TotalReps += reps
		if res <= 0 {
			continue
		}
		m.TotalVolume += res * float64(reps)
		if cur, ok := repBest[reps]; !ok || b.Improves(domain.PRTypeRepSpecific, res, cur) {
			repBest[reps] = res
		}
	}
	m.RepBests = sortedRepBests(repBest)
	return m
}

func (*Banded) ApplicablePRTypes() []domain.PRType {
	return []domain.PRType{domain.PRTypeVolume, domain.PRTypeRepSpecific}
}

func (b *Banded) Improves(prType domain.PRType, candidate, existing float64) bool {
	if prType == domain.PRTypeRepSpecific && b.IsAssistance() {
		return candidate < existing
	}
	return candidate > existing
}

func (b *Banded) FormatBeaten(rec *domain.PersonalRecord, _ *domain.LiftLog) domain.DisplayRow {
	return beatenRow(b, rec)
}

func (b *Banded) FormatStanding(rec *domain.PersonalRecord, current domain.PerformanceMetrics) domain.DisplayRow {
	return standingRow(b, rec, current)
}

func (b *Banded) label(prType domain.PRType, disc *float64) string {
	if prType == domain.PRTypeRepSpecific && disc != nil {
		return "Best Band x " + FormatNumber(*disc)
	}
	return defaultLabel(prType, disc, "")
}

func (b *Banded) value(prType domain.PRType, _ *float64, v float64) string {
	if prType == domain.PRTypeRepSpecific {
		if color := b.bands.ColorFor(v); color != "" {
			return color + " band"
		}
	}
	return FormatNumber(v)
}

func (b *Banded) note(prType domain.PRType) string {
	if prType == domain.PRTypeRepSpecific && b.IsAssistance() {
		return "lighter band is better"
	}
	return ""
}
