package exercisetype

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/mansoorceksport/liftlog/internal/domain"
)

// ParseSetInput turns a loosely typed set (decoded JSON, form values) into a
// SetInput. Numbers may arrive as JSON numbers or numeric strings; anything
// else is rejected naming the field and the offending value.
func ParseSetInput(t domain.ExerciseType, raw map[string]any) (SetInput, error) {
	var in SetInput
	var err error

	if in.Weight, err = parseNumber(t, FieldWeight, raw[FieldWeight]); err != nil {
		return SetInput{}, err
	}
	if in.HoldSeconds, err = parseNumber(t, FieldHoldSeconds, raw[FieldHoldSeconds]); err != nil {
		return SetInput{}, err
	}

	reps, err := parseNumber(t, FieldReps, raw[FieldReps])
	if err != nil {
		return SetInput{}, err
	}
	if reps != nil {
		if *reps != math.Trunc(*reps) {
			return SetInput{}, invalid(t, FieldReps, raw[FieldReps], "must be a whole number")
		}
		// out of int range the conversion would wrap and hide the input
		if math.Abs(*reps) > math.MaxInt32 {
			return SetInput{}, invalid(t, FieldReps, raw[FieldReps], "is out of range")
		}
		r := int(*reps)
		in.Reps = &r
	}

	switch v := raw[FieldBandColor].(type) {
	case nil:
	case string:
		if s := strings.TrimSpace(v); s != "" {
			in.BandColor = &s
		}
	default:
		return SetInput{}, invalid(t, FieldBandColor, v, "must be a string")
	}

	switch v := raw[FieldNotes].(type) {
	case nil:
	case string:
		in.Notes = strings.TrimSpace(v)
	default:
		return SetInput{}, invalid(t, FieldNotes, v, "must be a string")
	}

	return in, nil
}

// ParseSets parses every set of a submission. Field names in errors are
// prefixed with the set position, e.g. "sets.1.reps".
func ParseSets(t domain.ExerciseType, raw []map[string]any) ([]SetInput, error) {
	sets := make([]SetInput, 0, len(raw))
	for i, r := range raw {
		in, err := ParseSetInput(t, r)
		if err != nil {
			return nil, prefixField(err, i)
		}
		sets = append(sets, in)
	}
	return sets, nil
}

// Normalize applies the strategy's mutual-exclusion rules to every set
func Normalize(st Strategy, in LogInput) LogInput {
	sets := make([]SetInput, len(in.Sets))
	for i, s := range in.Sets {
		sets[i] = st.NormalizeLogInput(s)
	}
	in.Sets = sets
	return in
}

// ValidateLog checks a submission against the strategy's rules for this user.
// It runs before Normalize so that defaults never mask a missing required field.
func ValidateLog(st Strategy, prefs domain.UserPreferences, in LogInput) error {
	t := st.Type()
	if len(in.Sets) == 0 {
		return &domain.InvalidPerformanceDataError{ExerciseType: t, Field: FieldSets, Reason: "must contain at least one set"}
	}
	if in.LoggedAt.IsZero() {
		return &domain.InvalidPerformanceDataError{ExerciseType: t, Field: FieldDate, Reason: "is required"}
	}

	rules := st.ValidationRules(prefs)
	fields := make([]string, 0, len(rules))
	for f := range rules {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for i, set := range in.Sets {
		for _, f := range fields {
			if err := checkRule(t, f, rules[f], set); err != nil {
				return prefixField(err, i)
			}
		}
	}
	return nil
}

func checkRule(t domain.ExerciseType, field string, rule Rule, set SetInput) error {
	if field == FieldBandColor {
		if set.BandColor == nil {
			if rule.Required {
				return &domain.InvalidPerformanceDataError{ExerciseType: t, Field: field, Reason: "is required"}
			}
			return nil
		}
		if len(rule.OneOf) > 0 && !containsFold(rule.OneOf, *set.BandColor) {
			return invalid(t, field, *set.BandColor, "must be one of: "+strings.Join(rule.OneOf, ", "))
		}
		return nil
	}

	v, present := numericField(set, field)
	if !present {
		if rule.Required {
			return &domain.InvalidPerformanceDataError{ExerciseType: t, Field: field, Reason: "is required"}
		}
		return nil
	}
	if rule.Integer && v != math.Trunc(v) {
		return invalid(t, field, v, "must be a whole number")
	}
	if rule.Min != nil && v < *rule.Min {
		return invalid(t, field, v, "must be at least "+FormatNumber(*rule.Min))
	}
	if rule.Max != nil && v > *rule.Max {
		return invalid(t, field, v, "must be at most "+FormatNumber(*rule.Max))
	}
	return nil
}

func numericField(set SetInput, field string) (float64, bool) {
	switch field {
	case FieldWeight:
		if set.Weight != nil {
			return *set.Weight, true
		}
	case FieldReps:
		if set.Reps != nil {
			return float64(*set.Reps), true
		}
	case FieldHoldSeconds:
		if set.HoldSeconds != nil {
			return *set.HoldSeconds, true
		}
	}
	return 0, false
}

func parseNumber(t domain.ExerciseType, field string, v any) (*float64, error) {
	var f float64
	switch n := v.(type) {
	case nil:
		return nil, nil
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil, invalid(t, field, v, "must be numeric")
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, invalid(t, field, v, "must be numeric")
		}
		f = parsed
	default:
		return nil, invalid(t, field, v, "must be numeric")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, invalid(t, field, v, "must be a finite number")
	}
	return &f, nil
}

func invalid(t domain.ExerciseType, field string, v any, reason string) error {
	return &domain.InvalidPerformanceDataError{
		ExerciseType: t,
		Field:        field,
		Value:        fmt.Sprint(v),
		Reason:       reason,
	}
}

func prefixField(err error, index int) error {
	var ipd *domain.InvalidPerformanceDataError
	if errors.As(err, &ipd) {
		prefixed := *ipd
		prefixed.Field = fmt.Sprintf("%s.%d.%s", FieldSets, index, ipd.Field)
		return &prefixed
	}
	return err
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}
