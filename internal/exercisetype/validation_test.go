package exercisetype

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mansoorceksport/liftlog/internal/domain"
)

func requireInvalid(t *testing.T, err error) *domain.InvalidPerformanceDataError {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidPerformanceData))
	var ipd *domain.InvalidPerformanceDataError
	require.True(t, errors.As(err, &ipd))
	return ipd
}

func TestParseSetInput(t *testing.T) {
	t.Run("numbers from json and strings", func(t *testing.T) {
		in, err := ParseSetInput(domain.ExerciseTypeRegular, map[string]any{
			"weight": 135.0,
			"reps":   "5",
			"notes":  "  easy ",
		})
		require.NoError(t, err)
		assert.Equal(t, 135.0, *in.Weight)
		assert.Equal(t, 5, *in.Reps)
		assert.Equal(t, "easy", in.Notes)
		assert.Nil(t, in.BandColor)
	})

	t.Run("json.Number", func(t *testing.T) {
		in, err := ParseSetInput(domain.ExerciseTypeRegular, map[string]any{"weight": json.Number("102.5"), "reps": json.Number("3")})
		require.NoError(t, err)
		assert.Equal(t, 102.5, *in.Weight)
		assert.Equal(t, 3, *in.Reps)
	})

	t.Run("empty string is absent", func(t *testing.T) {
		in, err := ParseSetInput(domain.ExerciseTypeBodyweight, map[string]any{"weight": "", "reps": 10.0})
		require.NoError(t, err)
		assert.Nil(t, in.Weight)
	})

	tests := []struct {
		name   string
		raw    map[string]any
		field  string
		value  string
		reason string
	}{
		{name: "non numeric weight", raw: map[string]any{"weight": "abc"}, field: "weight", value: "abc", reason: "must be numeric"},
		{name: "boolean reps", raw: map[string]any{"reps": true}, field: "reps", value: "true", reason: "must be numeric"},
		{name: "fractional reps", raw: map[string]any{"reps": 5.5}, field: "reps", value: "5.5", reason: "must be a whole number"},
		{name: "reps beyond int range", raw: map[string]any{"weight": 100.0, "reps": 1e20}, field: "reps", value: "1e+20", reason: "is out of range"},
		{name: "huge reps as string", raw: map[string]any{"reps": "-99999999999"}, field: "reps", value: "-99999999999", reason: "is out of range"},
		{name: "band color not a string", raw: map[string]any{"band_color": 3.0}, field: "band_color", value: "3", reason: "must be a string"},
		{name: "infinite hold", raw: map[string]any{"hold_seconds": "Inf"}, field: "hold_seconds", value: "Inf", reason: "must be a finite number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSetInput(domain.ExerciseTypeRegular, tt.raw)
			ipd := requireInvalid(t, err)
			assert.Equal(t, domain.ExerciseTypeRegular, ipd.ExerciseType)
			assert.Equal(t, tt.field, ipd.Field)
			assert.Equal(t, tt.value, ipd.Value)
			assert.Equal(t, tt.reason, ipd.Reason)
		})
	}
}

func TestParseSets_PrefixesFieldWithPosition(t *testing.T) {
	_, err := ParseSets(domain.ExerciseTypeRegular, []map[string]any{
		{"weight": 100.0, "reps": 5.0},
		{"weight": "heavy", "reps": 5.0},
	})
	ipd := requireInvalid(t, err)
	assert.Equal(t, "sets.1.weight", ipd.Field)
	assert.Contains(t, err.Error(), `"heavy"`)
}

func TestValidateLog(t *testing.T) {
	now := time.Now()
	bands := testBands()

	tests := []struct {
		name    string
		st      Strategy
		prefs   domain.UserPreferences
		in      LogInput
		wantErr string // expected field, "" for valid
	}{
		{
			name: "regular valid",
			st:   NewRegular("lbs"),
			in:   LogInput{LoggedAt: now, Sets: []SetInput{{Weight: fp(135), Reps: ip(5)}}},
		},
		{
			name:    "no sets",
			st:      NewRegular("lbs"),
			in:      LogInput{LoggedAt: now},
			wantErr: "sets",
		},
		{
			name:    "missing date",
			st:      NewRegular("lbs"),
			in:      LogInput{Sets: []SetInput{{Weight: fp(135), Reps: ip(5)}}},
			wantErr: "date",
		},
		{
			name:    "regular missing weight",
			st:      NewRegular("lbs"),
			in:      LogInput{LoggedAt: now, Sets: []SetInput{{Weight: fp(135), Reps: ip(5)}, {Reps: ip(5)}}},
			wantErr: "sets.1.weight",
		},
		{
			name:    "negative weight",
			st:      NewRegular("lbs"),
			in:      LogInput{LoggedAt: now, Sets: []SetInput{{Weight: fp(-5), Reps: ip(5)}}},
			wantErr: "sets.0.weight",
		},
		{
			name: "zero reps is not an error",
			st:   NewRegular("lbs"),
			in:   LogInput{LoggedAt: now, Sets: []SetInput{{Weight: fp(135), Reps: ip(0)}}},
		},
		{
			name:    "unknown band color",
			st:      NewBanded(domain.BandTypeResistance, bands),
			in:      LogInput{LoggedAt: now, Sets: []SetInput{{BandColor: sp("pink"), Reps: ip(10)}}},
			wantErr: "sets.0.band_color",
		},
		{
			name: "band color is case insensitive",
			st:   NewBanded(domain.BandTypeResistance, bands),
			in:   LogInput{LoggedAt: now, Sets: []SetInput{{BandColor: sp("Red"), Reps: ip(10)}}},
		},
		{
			name: "bodyweight extra weight optional by default",
			st:   NewBodyweight("lbs"),
			in:   LogInput{LoggedAt: now, Sets: []SetInput{{Reps: ip(12)}}},
		},
		{
			name:    "bodyweight extra weight required by preference",
			st:      NewBodyweight("lbs"),
			prefs:   domain.UserPreferences{ShowExtraWeight: true},
			in:      LogInput{LoggedAt: now, Sets: []SetInput{{Reps: ip(12)}}},
			wantErr: "sets.0.weight",
		},
		{
			name:    "static hold requires seconds",
			st:      NewStaticHold("lbs"),
			in:      LogInput{LoggedAt: now, Sets: []SetInput{{Weight: fp(10)}}},
			wantErr: "sets.0.hold_seconds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLog(tt.st, tt.prefs, tt.in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			ipd := requireInvalid(t, err)
			assert.Equal(t, tt.wantErr, ipd.Field)
			assert.Equal(t, tt.st.Type(), ipd.ExerciseType)
		})
	}
}

func TestNormalize_AppliesToEverySet(t *testing.T) {
	in := LogInput{Sets: []SetInput{
		{Weight: fp(10), BandColor: sp("red"), Reps: ip(10)},
		{Weight: fp(10), BandColor: sp("BLUE"), Reps: ip(8)},
	}}
	out := Normalize(NewBanded(domain.BandTypeAssistance, testBands()), in)

	for _, s := range out.Sets {
		assert.Nil(t, s.Weight)
		assert.NotNil(t, s.BandColor)
	}
	assert.Equal(t, "blue", *out.Sets[1].BandColor)
	// input untouched
	assert.NotNil(t, in.Sets[0].Weight)
}
