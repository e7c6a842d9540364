package exercisetype

import (
	"sort"

	"github.com/mansoorceksport/liftlog/internal/domain"
)

// Candidate is a value a performance could set as a record
type Candidate struct {
	PRType        domain.PRType
	Discriminator *float64
	Value         float64
}

// Key places the candidate in its chain
func (c Candidate) Key(userID, exerciseID string) domain.RecordKey {
	return domain.RecordKey{
		UserID:        userID,
		ExerciseID:    exerciseID,
		PRType:        c.PRType,
		Discriminator: c.Discriminator,
	}
}

// Candidates expands a metrics snapshot into record candidates for every
// category the strategy tracks. Zero values are never candidates.
func Candidates(st Strategy, m domain.PerformanceMetrics) []Candidate {
	var out []Candidate
	for _, prType := range st.ApplicablePRTypes() {
		switch prType {
		case domain.PRTypeOneRM:
			if st.CanCalculate1RM() && m.Best1RM > 0 {
				out = append(out, Candidate{PRType: prType, Value: m.Best1RM})
			}
		case domain.PRTypeVolume:
			if m.TotalVolume > 0 {
				out = append(out, Candidate{PRType: prType, Value: m.TotalVolume})
			}
		case domain.PRTypeRepSpecific:
			for _, rb := range m.RepBests {
				if rb.Reps > 0 && rb.Value > 0 {
					out = append(out, Candidate{PRType: prType, Discriminator: floatPtr(float64(rb.Reps)), Value: rb.Value})
				}
			}
		case domain.PRTypeHypertrophy:
			for _, wb := range m.WeightBests {
				if wb.Weight > 0 && wb.Reps > 0 {
					out = append(out, Candidate{PRType: prType, Discriminator: floatPtr(wb.Weight), Value: float64(wb.Reps)})
				}
			}
		case domain.PRTypeTime:
			if m.BestHold > 0 {
				out = append(out, Candidate{PRType: prType, Value: m.BestHold})
			}
		}
	}
	return out
}

func sortedRepBests(best map[int]float64) []domain.RepBest {
	if len(best) == 0 {
		return nil
	}
	out := make([]domain.RepBest, 0, len(best))
	for reps, v := range best {
		out = append(out, domain.RepBest{Reps: reps, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reps < out[j].Reps })
	return out
}

func sortedWeightBests(best map[float64]int) []domain.WeightBest {
	if len(best) == 0 {
		return nil
	}
	out := make([]domain.WeightBest, 0, len(best))
	for w, reps := range best {
		out = append(out, domain.WeightBest{Weight: w, Reps: reps})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weight < out[j].Weight })
	return out
}
