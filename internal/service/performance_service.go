package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"go.uber.org/multierr"

	"github.com/mansoorceksport/liftlog/internal/domain"
	"github.com/mansoorceksport/liftlog/internal/exercisetype"
)

// LogRequest is a raw performance submission. Sets stay untyped until the
// exercise's strategy has parsed them.
type LogRequest struct {
	ExerciseID string
	ClientID   string
	LoggedAt   time.Time
	Comments   string
	Sets       []map[string]any
}

// PerformanceResult is what the caller sees after saving a performance
type PerformanceResult struct {
	Log       *domain.LiftLog         `json:"log"`
	Detection *domain.DetectionResult `json:"detection"`
	Rows      []domain.DisplayRow     `json:"rows"`
}

type PerformanceService struct {
	exercises   domain.ExerciseRepository
	logs        domain.LiftLogRepository
	preferences *PreferenceService
	registry    *exercisetype.Registry
	detector    *PRDetectionService
	comparison  *ComparisonService
}

func NewPerformanceService(
	exercises domain.ExerciseRepository,
	logs domain.LiftLogRepository,
	preferences *PreferenceService,
	registry *exercisetype.Registry,
	detector *PRDetectionService,
	comparison *ComparisonService,
) *PerformanceService {
	return &PerformanceService{
		exercises:   exercises,
		logs:        logs,
		preferences: preferences,
		registry:    registry,
		detector:    detector,
		comparison:  comparison,
	}
}

// Log validates and stores a new performance, then runs detection and
// assembles the records panel. When detection fails the stored log is soft
// deleted again so a retry does not leave a duplicate behind.
func (s *PerformanceService) Log(ctx context.Context, userID string, req LogRequest) (*PerformanceResult, error) {
	exercise, err := s.visibleExercise(ctx, userID, req.ExerciseID)
	if err != nil {
		return nil, err
	}

	in, err := s.prepare(ctx, userID, exercise, req)
	if err != nil {
		return nil, err
	}

	liftLog := &domain.LiftLog{
		ClientID:   req.ClientID,
		UserID:     userID,
		ExerciseID: exercise.ID,
		LoggedAt:   in.LoggedAt,
		Comments:   in.Comments,
		Sets:       toLiftSets(in.Sets),
	}
	if err := s.logs.Create(ctx, liftLog); err != nil {
		return nil, fmt.Errorf("failed to save lift log: %w", err)
	}

	detection, err := s.detect(ctx, exercise, liftLog, domain.TriggerCreated)
	if err != nil {
		if rerr := s.logs.SoftDelete(context.WithoutCancel(ctx), liftLog.ID); rerr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to roll back lift log %s: %w", liftLog.ID, rerr))
		}
		return nil, err
	}
	return s.present(ctx, exercise, liftLog, detection)
}

// Update replaces the sets of an existing performance and re-runs detection.
// Records created earlier by this performance are kept. When detection fails
// the previous content is written back.
func (s *PerformanceService) Update(ctx context.Context, userID, logID string, req LogRequest) (*PerformanceResult, error) {
	liftLog, err := s.Get(ctx, userID, logID)
	if err != nil {
		return nil, err
	}
	exercise, err := s.exercises.GetByID(ctx, liftLog.ExerciseID)
	if err != nil {
		return nil, err
	}

	in, err := s.prepare(ctx, userID, exercise, req)
	if err != nil {
		return nil, err
	}

	previous := *liftLog
	liftLog.LoggedAt = in.LoggedAt
	liftLog.Comments = in.Comments
	liftLog.Sets = toLiftSets(in.Sets)
	if err := s.logs.Update(ctx, liftLog); err != nil {
		return nil, fmt.Errorf("failed to update lift log: %w", err)
	}

	detection, err := s.detect(ctx, exercise, liftLog, domain.TriggerUpdated)
	if err != nil {
		if rerr := s.logs.Update(context.WithoutCancel(ctx), &previous); rerr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to restore lift log %s: %w", liftLog.ID, rerr))
		}
		return nil, err
	}
	return s.present(ctx, exercise, liftLog, detection)
}

// Delete soft deletes a performance. Records it created stay in the history.
func (s *PerformanceService) Delete(ctx context.Context, userID, logID string) error {
	if _, err := s.Get(ctx, userID, logID); err != nil {
		return err
	}
	return s.logs.SoftDelete(ctx, logID)
}

// Get returns a performance owned by userID
func (s *PerformanceService) Get(ctx context.Context, userID, logID string) (*domain.LiftLog, error) {
	liftLog, err := s.logs.GetByID(ctx, logID)
	if err != nil {
		return nil, err
	}
	if liftLog.IsDeleted() {
		return nil, domain.ErrLiftLogNotFound
	}
	if liftLog.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return liftLog, nil
}

// Comparison rebuilds the records panel for a stored performance
func (s *PerformanceService) Comparison(ctx context.Context, userID, logID string) ([]domain.DisplayRow, error) {
	liftLog, err := s.Get(ctx, userID, logID)
	if err != nil {
		return nil, err
	}
	exercise, err := s.exercises.GetByID(ctx, liftLog.ExerciseID)
	if err != nil {
		return nil, err
	}
	return s.comparison.Assemble(ctx, exercise, liftLog)
}

func (s *PerformanceService) visibleExercise(ctx context.Context, userID, exerciseID string) (*domain.Exercise, error) {
	if strings.TrimSpace(exerciseID) == "" {
		return nil, domain.ErrExerciseNotFound
	}
	exercise, err := s.exercises.GetByID(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	if !exercise.VisibleTo(userID) {
		return nil, domain.ErrForbidden
	}
	return exercise, nil
}

// prepare parses, validates and normalizes a submission. Validation runs on
// the raw input so normalization defaults never satisfy a required field.
func (s *PerformanceService) prepare(ctx context.Context, userID string, exercise *domain.Exercise, req LogRequest) (exercisetype.LogInput, error) {
	st := s.registry.ResolveSafe(exercise)

	prefs, err := s.preferences.Get(ctx, userID)
	if err != nil {
		return exercisetype.LogInput{}, err
	}

	sets, err := exercisetype.ParseSets(st.Type(), req.Sets)
	if err != nil {
		return exercisetype.LogInput{}, err
	}

	in := exercisetype.LogInput{
		ClientID: req.ClientID,
		LoggedAt: req.LoggedAt,
		Comments: req.Comments,
		Sets:     sets,
	}
	if err := exercisetype.ValidateLog(st, *prefs, in); err != nil {
		return exercisetype.LogInput{}, err
	}
	return exercisetype.Normalize(st, in), nil
}

func (s *PerformanceService) detect(ctx context.Context, exercise *domain.Exercise, liftLog *domain.LiftLog, trigger string) (*domain.DetectionResult, error) {
	detection, err := s.detector.Detect(ctx, exercise, liftLog, trigger)
	if err != nil {
		return nil, fmt.Errorf("record detection failed for lift log %s: %w", liftLog.ID, err)
	}
	if n := len(detection.Created); n > 0 {
		log.WithFields(log.Fields{
			"user_id":     liftLog.UserID,
			"exercise_id": liftLog.ExerciseID,
			"lift_log_id": liftLog.ID,
			"records":     n,
		}).Info("new personal records")
	}
	return detection, nil
}

func (s *PerformanceService) present(ctx context.Context, exercise *domain.Exercise, liftLog *domain.LiftLog, detection *domain.DetectionResult) (*PerformanceResult, error) {
	rows, err := s.comparison.Assemble(ctx, exercise, liftLog)
	if err != nil {
		return nil, err
	}
	return &PerformanceResult{Log: liftLog, Detection: detection, Rows: rows}, nil
}

func toLiftSets(in []exercisetype.SetInput) []domain.LiftSet {
	sets := make([]domain.LiftSet, 0, len(in))
	for i, set := range in {
		sets = append(sets, set.ToLiftSet(i+1))
	}
	return sets
}
