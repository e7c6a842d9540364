package domain

// RepBest is the best load lifted for an exact rep count
type RepBest struct {
	Reps  int     `json:"reps" bson:"reps"`
	Value float64 `json:"value" bson:"value"`
}

// WeightBest is the most reps achieved at a target weight
type WeightBest struct {
	Weight float64 `json:"weight" bson:"weight"`
	Reps   int     `json:"reps" bson:"reps"`
}

// PerformanceMetrics is what a strategy extracts from a LiftLog.
// RepBests is sorted by Reps, WeightBests by Weight.
type PerformanceMetrics struct {
	Best1RM     float64      `json:"best_1rm" bson:"best_1rm"`
	TotalVolume float64      `json:"total_volume" bson:"total_volume"`
	TotalReps   int          `json:"total_reps" bson:"total_reps"`
	BestHold    float64      `json:"best_hold" bson:"best_hold"`
	RepBests    []RepBest    `json:"rep_weights" bson:"rep_weights"`
	WeightBests []WeightBest `json:"weight_reps" bson:"weight_reps"`
}

// RepBestFor looks up the best value at a rep count
func (m PerformanceMetrics) RepBestFor(reps int) (float64, bool) {
	for _, rb := range m.RepBests {
		if rb.Reps == reps {
			return rb.Value, true
		}
	}
	return 0, false
}

// WeightBestFor looks up the best reps at a weight
func (m PerformanceMetrics) WeightBestFor(weight float64) (int, bool) {
	for _, wb := range m.WeightBests {
		if wb.Weight == weight {
			return wb.Reps, true
		}
	}
	return 0, false
}
