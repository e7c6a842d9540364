// Package exercisetype implements the per-type behavior of exercises:
// validation, normalization, metric extraction and record formatting.
//
// The set of strategies is closed. Strategy carries an unexported method so
// only this package can add variants, and Registry builds the dispatch table
// once from an explicit switch.
package exercisetype

import (
	"time"

	"github.com/mansoorceksport/liftlog/internal/domain"
)

// ChartType classifies how progress is charted for an exercise
type ChartType string

const (
	ChartOneRepMax             ChartType = "one_rep_max"
	ChartVolumeProgression     ChartType = "volume_progression"
	ChartBodyweightProgression ChartType = "bodyweight_progression"
)

// Form field names
const (
	FieldWeight      = "weight"
	FieldReps        = "reps"
	FieldHoldSeconds = "hold_seconds"
	FieldBandColor   = "band_color"
	FieldNotes       = "notes"
	FieldDate        = "date"
	FieldTime        = "time"
	FieldSets        = "sets"
)

// EssentialFields are shown for every exercise type and always win over a
// variant's own field list.
var EssentialFields = []string{FieldDate, FieldTime, FieldNotes}

// SetInput is a parsed, not yet validated set
type SetInput struct {
	Weight      *float64
	Reps        *int
	HoldSeconds *float64
	BandColor   *string
	Notes       string
}

// ToLiftSet converts the input into a stored set with a 1-based index
func (s SetInput) ToLiftSet(index int) domain.LiftSet {
	return domain.LiftSet{
		SetIndex:    index,
		Weight:      s.Weight,
		Reps:        s.Reps,
		HoldSeconds: s.HoldSeconds,
		BandColor:   s.BandColor,
		Notes:       s.Notes,
	}
}

// LogInput is a parsed performance submission
type LogInput struct {
	ClientID string
	LoggedAt time.Time
	Comments string
	Sets     []SetInput
}

// ExerciseInput is an exercise create/update submission
type ExerciseInput struct {
	Title        string
	ExerciseType domain.ExerciseType
	MuscleGroup  string
	BandType     *string
	IsBodyweight bool
}

// Rule constrains one form field
type Rule struct {
	Required bool     `json:"required"`
	Integer  bool     `json:"integer,omitempty"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	OneOf    []string `json:"one_of,omitempty"`
}

// Rules maps a field name to its constraint
type Rules map[string]Rule

// Strategy is the behavior of one exercise type
type Strategy interface {
	Type() domain.ExerciseType
	CanCalculate1RM() bool
	ChartType() ChartType
	RequiredFormFields(prefs domain.UserPreferences) []string
	ValidationRules(prefs domain.UserPreferences) Rules
	NormalizeLogInput(in SetInput) SetInput
	NormalizeExerciseInput(in ExerciseInput) ExerciseInput
	RawDisplayWeight(set domain.LiftSet) float64
	CurrentMetrics(log *domain.LiftLog) domain.PerformanceMetrics
	ApplicablePRTypes() []domain.PRType
	// Improves reports whether candidate strictly beats existing. Ties never improve.
	Improves(prType domain.PRType, candidate, existing float64) bool
	FormatBeaten(rec *domain.PersonalRecord, log *domain.LiftLog) domain.DisplayRow
	FormatStanding(rec *domain.PersonalRecord, current domain.PerformanceMetrics) domain.DisplayRow

	isStrategy()
}

// FormFields returns the essential fields followed by the variant's required ones
func FormFields(st Strategy, prefs domain.UserPreferences) []string {
	fields := make([]string, 0, len(EssentialFields)+3)
	seen := make(map[string]bool)
	for _, f := range EssentialFields {
		seen[f] = true
		fields = append(fields, f)
	}
	for _, f := range st.RequiredFormFields(prefs) {
		if !seen[f] {
			seen[f] = true
			fields = append(fields, f)
		}
	}
	return fields
}

func floatPtr(v float64) *float64 {
	return &v
}
