package service

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/mansoorceksport/liftlog/internal/domain"
	"github.com/mansoorceksport/liftlog/internal/exercisetype"
	"github.com/mansoorceksport/liftlog/internal/telemetry"
)

// ComparisonService builds the records panel shown after a performance is saved
type ComparisonService struct {
	registry *exercisetype.Registry
	logs     domain.LiftLogRepository
	records  domain.PersonalRecordRepository
}

func NewComparisonService(registry *exercisetype.Registry, logs domain.LiftLogRepository, records domain.PersonalRecordRepository) *ComparisonService {
	return &ComparisonService{
		registry: registry,
		logs:     logs,
		records:  records,
	}
}

// HistoryLink points at the supersession history of an exercise
func HistoryLink(exerciseID string) string {
	return "/v1/me/exercises/" + exerciseID + "/records/history"
}

// Assemble returns the display rows for liftLog. The first performance of an
// exercise, by creation order, gets a single achievement row. Later ones list
// the records they beat followed by the records that still stand. A record
// counts as beaten only while it is the current head and its value still
// follows from the log's current sets, so edits never show stale rows. The
// history row is always last.
func (s *ComparisonService) Assemble(ctx context.Context, exercise *domain.Exercise, liftLog *domain.LiftLog) (rows []domain.DisplayRow, err error) {
	ctx, span := tracer.Start(ctx, "comparison.assemble")
	defer func() { telemetry.EndSpanWithErrCheck(span, err) }()

	var (
		first   *domain.LiftLog
		created []*domain.PersonalRecord
		current []*domain.PersonalRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		first, err = s.logs.GetFirstCreatedByUserAndExercise(gctx, liftLog.UserID, liftLog.ExerciseID)
		if err != nil {
			return fmt.Errorf("failed to load first log: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		created, err = s.records.GetByLiftLog(gctx, liftLog.ID)
		if err != nil {
			return fmt.Errorf("failed to load records of log: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		current, err = s.records.ListCurrent(gctx, liftLog.UserID, liftLog.ExerciseID)
		if err != nil {
			return fmt.Errorf("failed to load current records: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	history := domain.DisplayRow{
		Kind:  domain.RowKindHistory,
		Label: "View history",
		Link:  HistoryLink(liftLog.ExerciseID),
	}

	if first == nil || first.ID == liftLog.ID {
		return []domain.DisplayRow{
			{Kind: domain.RowKindAchievement, Label: "Achievement", Value: "first time!"},
			history,
		}, nil
	}

	st := s.registry.ResolveSafe(exercise)
	metrics := st.CurrentMetrics(liftLog)

	isCurrent := make(map[string]bool, len(current))
	for _, rec := range current {
		isCurrent[rec.ID] = true
	}
	achieved := make(map[string]float64)
	for _, c := range exercisetype.Candidates(st, metrics) {
		achieved[c.Key(liftLog.UserID, liftLog.ExerciseID).String()] = c.Value
	}

	beaten := make(map[string]bool, len(created))
	for _, rec := range created {
		if v, ok := achieved[rec.Key().String()]; ok && isCurrent[rec.ID] && v == rec.Value {
			beaten[rec.ID] = true
		}
	}

	sortRecords(current)
	rows = make([]domain.DisplayRow, 0, len(current)+1)
	for _, rec := range current {
		if beaten[rec.ID] {
			rows = append(rows, st.FormatBeaten(rec, liftLog))
		}
	}
	for _, rec := range current {
		if !beaten[rec.ID] {
			rows = append(rows, st.FormatStanding(rec, metrics))
		}
	}

	return append(rows, history), nil
}

// sortRecords orders by record type, then discriminator ascending
func sortRecords(recs []*domain.PersonalRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if ra, rb := a.PRType.Rank(), b.PRType.Rank(); ra != rb {
			return ra < rb
		}
		return discriminatorValue(a) < discriminatorValue(b)
	})
}

func discriminatorValue(rec *domain.PersonalRecord) float64 {
	if rec.Discriminator == nil {
		return 0
	}
	return *rec.Discriminator
}
