package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mansoorceksport/liftlog/internal/domain"
)

func (f *fixture) logAndDetect(t *testing.T, exercise *domain.Exercise, n int, sets ...domain.LiftSet) *domain.LiftLog {
	t.Helper()
	l := f.storeLog(t, exercise, day(n), sets...)
	_, err := f.detector.Detect(context.Background(), exercise, l, domain.TriggerCreated)
	require.NoError(t, err)
	return l
}

func rowKinds(rows []domain.DisplayRow) []domain.RowKind {
	kinds := make([]domain.RowKind, 0, len(rows))
	for _, r := range rows {
		kinds = append(kinds, r.Kind)
	}
	return kinds
}

func TestAssemble_FirstPerformance(t *testing.T) {
	f := newFixture(t)
	l := f.logAndDetect(t, benchPress, 1, weightSet(135, 5))

	rows, err := f.comparison.Assemble(context.Background(), benchPress, l)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.DisplayRow{Kind: domain.RowKindAchievement, Label: "Achievement", Value: "first time!"}, rows[0])
	assert.Equal(t, domain.RowKindHistory, rows[1].Kind)
	assert.Equal(t, "/v1/me/exercises/ex-bench/records/history", rows[1].Link)
}

func TestAssemble_BeatenThenStanding(t *testing.T) {
	f := newFixture(t)
	f.logAndDetect(t, benchPress, 1, weightSet(135, 5))
	second := f.logAndDetect(t, benchPress, 2, weightSet(145, 5))

	rows, err := f.comparison.Assemble(context.Background(), benchPress, second)
	require.NoError(t, err)

	assert.Equal(t, []domain.RowKind{
		domain.RowKindBeaten, domain.RowKindBeaten, domain.RowKindBeaten, domain.RowKindBeaten,
		domain.RowKindStanding,
		domain.RowKindHistory,
	}, rowKinds(rows))

	assert.Equal(t, domain.DisplayRow{
		Kind:       domain.RowKindBeaten,
		PRType:     domain.PRTypeOneRM,
		Label:      "1RM",
		Value:      "169.2 lbs",
		Comparison: "Previous: 157.5 lbs",
	}, rows[0])
	assert.Equal(t, domain.PRTypeVolume, rows[1].PRType)
	assert.Equal(t, "Previous: 675 lbs", rows[1].Comparison)
	assert.Equal(t, "5 Rep Max", rows[2].Label)
	assert.Equal(t, "Best @ 145 lbs", rows[3].Label)
	assert.Equal(t, "First record", rows[3].Comparison)

	// the older hypertrophy record still stands and carries no comparison
	assert.Equal(t, "Best @ 135 lbs", rows[4].Label)
	assert.Equal(t, "5 reps", rows[4].Value)
	assert.Empty(t, rows[4].Comparison)
}

func TestAssemble_StandingRowsCompareWithThisPerformance(t *testing.T) {
	f := newFixture(t)
	f.logAndDetect(t, benchPress, 1, weightSet(135, 5))
	f.logAndDetect(t, benchPress, 2, weightSet(145, 5))
	third := f.logAndDetect(t, benchPress, 3, weightSet(140, 5))

	rows, err := f.comparison.Assemble(context.Background(), benchPress, third)
	require.NoError(t, err)
	require.Len(t, rows, 7)

	assert.Equal(t, domain.RowKindBeaten, rows[0].Kind)
	assert.Equal(t, "Best @ 140 lbs", rows[0].Label)

	standing := rows[1:6]
	assert.Equal(t, domain.PRTypeOneRM, standing[0].PRType)
	assert.Equal(t, "169.2 lbs", standing[0].Value)
	assert.Equal(t, "This time: 163.3 lbs", standing[0].Comparison)
	assert.Equal(t, "This time: 700 lbs", standing[1].Comparison)
	assert.Equal(t, "This time: 140 lbs", standing[2].Comparison)
	assert.Equal(t, "Best @ 135 lbs", standing[3].Label)
	assert.Equal(t, "Best @ 145 lbs", standing[4].Label)
	assert.Equal(t, domain.RowKindHistory, rows[6].Kind)
}

func TestAssemble_AssistanceNote(t *testing.T) {
	f := newFixture(t)
	f.logAndDetect(t, pullUp, 1, bandSet("red", 8))
	second := f.logAndDetect(t, pullUp, 2, bandSet("green", 8))

	rows, err := f.comparison.Assemble(context.Background(), pullUp, second)
	require.NoError(t, err)

	var repRow *domain.DisplayRow
	for i := range rows {
		if rows[i].PRType == domain.PRTypeRepSpecific {
			repRow = &rows[i]
		}
	}
	require.NotNil(t, repRow)
	assert.Equal(t, domain.RowKindStanding, repRow.Kind)
	assert.Contains(t, repRow.Comparison, "lighter band is better")
}

func TestAssemble_DeletedFirstPerformance(t *testing.T) {
	f := newFixture(t)
	first := f.logAndDetect(t, benchPress, 1, weightSet(135, 5))
	second := f.logAndDetect(t, benchPress, 2, weightSet(145, 5))
	require.NoError(t, f.logs.SoftDelete(context.Background(), first.ID))

	rows, err := f.comparison.Assemble(context.Background(), benchPress, second)
	require.NoError(t, err)
	assert.Equal(t, domain.RowKindAchievement, rows[0].Kind)
}

func TestAssemble_EditedPerformanceShowsOnlyWhatItBeatsNow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.performance.Log(ctx, testUser, benchRequest(1, 100, 5))
	require.NoError(t, err)
	created, err := f.performance.Log(ctx, testUser, benchRequest(2, 135, 5))
	require.NoError(t, err)

	_, err = f.performance.Update(ctx, testUser, created.Log.ID, benchRequest(2, 145, 5))
	require.NoError(t, err)
	edited, err := f.performance.Update(ctx, testUser, created.Log.ID, benchRequest(2, 155, 5))
	require.NoError(t, err)

	rows := edited.Rows
	assert.Equal(t, []domain.RowKind{
		domain.RowKindBeaten, domain.RowKindBeaten, domain.RowKindBeaten, domain.RowKindBeaten,
		domain.RowKindStanding, domain.RowKindStanding, domain.RowKindStanding,
		domain.RowKindHistory,
	}, rowKinds(rows))

	assert.Equal(t, domain.PRTypeOneRM, rows[0].PRType)
	assert.Equal(t, "180.8 lbs", rows[0].Value)
	assert.Equal(t, "Previous: 169.2 lbs", rows[0].Comparison)
	assert.Equal(t, "Previous: 725 lbs", rows[1].Comparison)
	assert.Equal(t, "Previous: 145 lbs", rows[2].Comparison)
	assert.Equal(t, "Best @ 155 lbs", rows[3].Label)

	// hypertrophy records from the earlier versions still stand in their buckets
	assert.Equal(t, "Best @ 100 lbs", rows[4].Label)
	assert.Equal(t, "Best @ 135 lbs", rows[5].Label)
	assert.Equal(t, "Best @ 145 lbs", rows[6].Label)

	again, err := f.performance.Comparison(ctx, testUser, created.Log.ID)
	require.NoError(t, err)
	assert.Equal(t, rows, again)
}

func TestAssemble_BackdatedPerformanceIsNotFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.performance.Log(ctx, testUser, benchRequest(5, 135, 5))
	require.NoError(t, err)
	_, err = f.performance.Log(ctx, testUser, benchRequest(6, 145, 5))
	require.NoError(t, err)

	backdated, err := f.performance.Log(ctx, testUser, benchRequest(1, 200, 5))
	require.NoError(t, err)
	require.Len(t, backdated.Detection.Created, 4)

	rows := backdated.Rows
	assert.NotContains(t, rowKinds(rows), domain.RowKindAchievement)
	assert.Equal(t, domain.RowKindBeaten, rows[0].Kind)
	assert.Equal(t, "233.3 lbs", rows[0].Value)
	assert.Equal(t, "Previous: 169.2 lbs", rows[0].Comparison)
	assert.Equal(t, domain.RowKindHistory, rows[len(rows)-1].Kind)
}
