package exercisetype

import (
	"math"
	"strconv"

	"github.com/mansoorceksport/liftlog/internal/domain"
)

// FormatNumber rounds to one decimal and drops a trailing ".0"
func FormatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

// MetricValue reads the value of one record category out of a metrics snapshot.
// ok is false when the performance did not touch the category at all.
func MetricValue(m domain.PerformanceMetrics, prType domain.PRType, disc *float64) (float64, bool) {
	switch prType {
	case domain.PRTypeOneRM:
		return m.Best1RM, m.Best1RM > 0
	case domain.PRTypeVolume:
		return m.TotalVolume, m.TotalVolume > 0
	case domain.PRTypeRepSpecific:
		if disc == nil {
			return 0, false
		}
		return m.RepBestFor(int(*disc))
	case domain.PRTypeHypertrophy:
		if disc == nil {
			return 0, false
		}
		reps, ok := m.WeightBestFor(*disc)
		return float64(reps), ok
	case domain.PRTypeTime:
		return m.BestHold, m.BestHold > 0
	}
	return 0, false
}

// presenter is the per-variant part of record formatting
type presenter interface {
	label(prType domain.PRType, disc *float64) string
	value(prType domain.PRType, disc *float64, v float64) string
	// note is appended to comparison strings, "" for none
	note(prType domain.PRType) string
}

func beatenRow(p presenter, rec *domain.PersonalRecord) domain.DisplayRow {
	row := domain.DisplayRow{
		Kind:   domain.RowKindBeaten,
		PRType: rec.PRType,
		Label:  p.label(rec.PRType, rec.Discriminator),
		Value:  p.value(rec.PRType, rec.Discriminator, rec.Value),
	}
	if rec.PreviousValue != nil {
		row.Comparison = "Previous: " + p.value(rec.PRType, rec.Discriminator, *rec.PreviousValue)
	} else {
		row.Comparison = "First record"
	}
	return withNote(p, rec.PRType, row)
}

func standingRow(p presenter, rec *domain.PersonalRecord, current domain.PerformanceMetrics) domain.DisplayRow {
	row := domain.DisplayRow{
		Kind:   domain.RowKindStanding,
		PRType: rec.PRType,
		Label:  p.label(rec.PRType, rec.Discriminator),
		Value:  p.value(rec.PRType, rec.Discriminator, rec.Value),
	}
	// hypertrophy records are listed without a live comparison
	if rec.PRType == domain.PRTypeHypertrophy {
		return row
	}
	if v, ok := MetricValue(current, rec.PRType, rec.Discriminator); ok && v > 0 {
		row.Comparison = "This time: " + p.value(rec.PRType, rec.Discriminator, v)
	} else {
		row.Comparison = "Not attempted this time"
	}
	return withNote(p, rec.PRType, row)
}

func withNote(p presenter, prType domain.PRType, row domain.DisplayRow) domain.DisplayRow {
	if n := p.note(prType); n != "" {
		row.Comparison += " (" + n + ")"
	}
	return row
}

func defaultLabel(prType domain.PRType, disc *float64, unit string) string {
	switch prType {
	case domain.PRTypeOneRM:
		return "1RM"
	case domain.PRTypeVolume:
		return "Volume"
	case domain.PRTypeRepSpecific:
		if disc != nil {
			return FormatNumber(*disc) + " Rep Max"
		}
		return "Rep Max"
	case domain.PRTypeHypertrophy:
		if disc != nil {
			return "Best @ " + FormatNumber(*disc) + " " + unit
		}
		return "Best Reps"
	case domain.PRTypeTime:
		return "Longest Hold"
	}
	return string(prType)
}
