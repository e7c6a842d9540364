package exercisetype

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/mansoorceksport/liftlog/internal/domain"
)

// KnownTypes is the closed set of exercise types, in catalog order
var KnownTypes = []domain.ExerciseType{
	domain.ExerciseTypeRegular,
	domain.ExerciseTypeBandedResistance,
	domain.ExerciseTypeBandedAssistance,
	domain.ExerciseTypeBodyweight,
	domain.ExerciseTypeCardio,
	domain.ExerciseTypeStaticHold,
}

const DefaultWeightUnit = "lbs"

// Registry resolves an exercise type to its strategy. The table is built
// once at construction and is safe for concurrent use.
type Registry struct {
	strategies map[domain.ExerciseType]Strategy
	fallback   Strategy
	bands      BandTable
	unit       string
	onFallback func(ex *domain.Exercise)
}

type RegistryOption func(*Registry)

// WithWeightUnit sets the unit shown next to weights ("lbs" or "kg")
func WithWeightUnit(unit string) RegistryOption {
	return func(r *Registry) {
		if unit != "" {
			r.unit = unit
		}
	}
}

// WithFallbackHook is called every time ResolveSafe falls back to Regular
func WithFallbackHook(fn func(ex *domain.Exercise)) RegistryOption {
	return func(r *Registry) {
		r.onFallback = fn
	}
}

func NewRegistry(bands BandTable, opts ...RegistryOption) *Registry {
	r := &Registry{
		strategies: make(map[domain.ExerciseType]Strategy, len(KnownTypes)),
		bands:      bands,
		unit:       DefaultWeightUnit,
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, t := range KnownTypes {
		r.strategies[t] = r.build(t)
	}
	r.fallback = r.strategies[domain.ExerciseTypeRegular]
	return r
}

func (r *Registry) build(t domain.ExerciseType) Strategy {
	switch t {
	case domain.ExerciseTypeBandedResistance:
		return NewBanded(domain.BandTypeResistance, r.bands)
	case domain.ExerciseTypeBandedAssistance:
		return NewBanded(domain.BandTypeAssistance, r.bands)
	case domain.ExerciseTypeBodyweight:
		return NewBodyweight(r.unit)
	case domain.ExerciseTypeCardio:
		return NewCardio()
	case domain.ExerciseTypeStaticHold:
		return NewStaticHold(r.unit)
	default:
		return NewRegular(r.unit)
	}
}

// Resolve is the strict lookup used when authoring exercises
func (r *Registry) Resolve(t domain.ExerciseType) (Strategy, error) {
	st, ok := r.strategies[t]
	if !ok {
		return nil, &domain.UnknownExerciseTypeError{Type: string(t)}
	}
	return st, nil
}

// ResolveSafe never fails. An unknown or missing type falls back to Regular;
// the fallback is logged and reported to the hook so bad data stays visible.
func (r *Registry) ResolveSafe(ex *domain.Exercise) Strategy {
	var t domain.ExerciseType
	if ex != nil {
		t = ex.ExerciseType
	}
	st, err := r.Resolve(t)
	if err == nil {
		return st
	}

	fields := log.Fields{"fallback": domain.ExerciseTypeRegular}
	if ex != nil {
		fields["exercise_id"] = ex.ID
	}
	log.WithError(err).WithFields(fields).Warn("using regular strategy")
	if r.onFallback != nil {
		r.onFallback(ex)
	}
	return r.fallback
}

// ResolveExerciseInput picks the strategy for an exercise submission and
// normalizes it. Without an explicit type, a band type wins over the
// bodyweight flag.
func (r *Registry) ResolveExerciseInput(in ExerciseInput) (Strategy, ExerciseInput, error) {
	t := in.ExerciseType
	if t == "" {
		switch {
		case in.BandType != nil:
			t = domain.ExerciseType("banded_" + strings.ToLower(strings.TrimSpace(*in.BandType)))
		case in.IsBodyweight:
			t = domain.ExerciseTypeBodyweight
		default:
			t = domain.ExerciseTypeRegular
		}
	}
	st, err := r.Resolve(t)
	if err != nil {
		return nil, in, err
	}
	return st, st.NormalizeExerciseInput(in), nil
}

// Bands returns the configured band table
func (r *Registry) Bands() BandTable {
	return r.bands
}

// WeightUnit returns the display unit for weights
func (r *Registry) WeightUnit() string {
	return r.unit
}

// TypeInfo describes one exercise type for the catalog endpoint
type TypeInfo struct {
	Type            domain.ExerciseType `json:"type"`
	ChartType       ChartType           `json:"chart_type"`
	CanCalculate1RM bool                `json:"can_calculate_1rm"`
	FormFields      []string            `json:"form_fields"`
	Rules           Rules               `json:"validation_rules"`
	PRTypes         []domain.PRType     `json:"pr_types"`
}

// Types lists every known type as seen by a user with prefs
func (r *Registry) Types(prefs domain.UserPreferences) []TypeInfo {
	infos := make([]TypeInfo, 0, len(KnownTypes))
	for _, t := range KnownTypes {
		st := r.strategies[t]
		infos = append(infos, TypeInfo{
			Type:            t,
			ChartType:       st.ChartType(),
			CanCalculate1RM: st.CanCalculate1RM(),
			FormFields:      FormFields(st, prefs),
			Rules:           st.ValidationRules(prefs),
			PRTypes:         st.ApplicablePRTypes(),
		})
	}
	return infos
}
