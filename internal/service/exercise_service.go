package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mansoorceksport/liftlog/internal/domain"
	"github.com/mansoorceksport/liftlog/internal/exercisetype"
)

// ExerciseService manages the exercise library a user can log against
type ExerciseService struct {
	exercises domain.ExerciseRepository
	logs      domain.LiftLogRepository
	registry  *exercisetype.Registry
}

func NewExerciseService(exercises domain.ExerciseRepository, logs domain.LiftLogRepository, registry *exercisetype.Registry) *ExerciseService {
	return &ExerciseService{
		exercises: exercises,
		logs:      logs,
		registry:  registry,
	}
}

// Create adds a private exercise for userID. An unknown type is rejected.
func (s *ExerciseService) Create(ctx context.Context, userID string, in exercisetype.ExerciseInput) (*domain.Exercise, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrExerciseTitleEmpty
	}

	_, norm, err := s.registry.ResolveExerciseInput(in)
	if err != nil {
		return nil, err
	}

	exercise := &domain.Exercise{
		Title:        title,
		ExerciseType: norm.ExerciseType,
		UserID:       userID,
		MuscleGroup:  strings.TrimSpace(norm.MuscleGroup),
	}
	if err := s.exercises.Create(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

// ListVisible returns global exercises plus the user's own
func (s *ExerciseService) ListVisible(ctx context.Context, userID string) ([]*domain.Exercise, error) {
	return s.exercises.ListVisible(ctx, userID)
}

// Get returns an exercise the user is allowed to see
func (s *ExerciseService) Get(ctx context.Context, userID, id string) (*domain.Exercise, error) {
	exercise, err := s.exercises.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exercise.VisibleTo(userID) {
		return nil, domain.ErrForbidden
	}
	return exercise, nil
}

// Update edits a private exercise. The type is frozen once any performance
// has been logged against it, since stored sets are shaped by the type.
func (s *ExerciseService) Update(ctx context.Context, userID, id string, in exercisetype.ExerciseInput) (*domain.Exercise, error) {
	exercise, err := s.exercises.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exercise.UserID != userID {
		return nil, domain.ErrForbidden
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrExerciseTitleEmpty
	}

	_, norm, err := s.registry.ResolveExerciseInput(in)
	if err != nil {
		return nil, err
	}

	if norm.ExerciseType != exercise.ExerciseType {
		count, err := s.logs.CountByExercise(ctx, exercise.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count lift logs: %w", err)
		}
		if count > 0 {
			return nil, domain.ErrExerciseTypeLocked
		}
	}

	exercise.Title = title
	exercise.ExerciseType = norm.ExerciseType
	exercise.MuscleGroup = strings.TrimSpace(norm.MuscleGroup)
	if err := s.exercises.Update(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}
