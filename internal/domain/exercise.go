package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrExerciseNotFound   = errors.New("exercise not found")
	ErrDuplicateExercise  = errors.New("exercise name already exists")
	ErrExerciseTypeLocked = errors.New("exercise type cannot change once performances are logged")
	ErrExerciseTitleEmpty = errors.New("exercise title is required")
)

// ExerciseType is the stored discriminator that drives strategy selection
type ExerciseType string

const (
	ExerciseTypeRegular          ExerciseType = "regular"
	ExerciseTypeBandedResistance ExerciseType = "banded_resistance"
	ExerciseTypeBandedAssistance ExerciseType = "banded_assistance"
	ExerciseTypeBodyweight       ExerciseType = "bodyweight"
	ExerciseTypeCardio           ExerciseType = "cardio"
	ExerciseTypeStaticHold       ExerciseType = "static_hold"
)

// Band subtypes accepted on exercise input
const (
	BandTypeResistance = "resistance"
	BandTypeAssistance = "assistance"
)

// Exercise represents a move in the global library or a user's private one.
// An empty UserID means the exercise is shared by everyone.
type Exercise struct {
	ID           string       `json:"id" bson:"_id,omitempty"`
	Title        string       `json:"title" bson:"title"`
	ExerciseType ExerciseType `json:"exercise_type" bson:"exercise_type"`
	UserID       string       `json:"user_id,omitempty" bson:"user_id,omitempty"`
	MuscleGroup  string       `json:"muscle_group,omitempty" bson:"muscle_group,omitempty"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" bson:"updated_at"`
}

// IsGlobal reports whether the exercise has no owning user
func (e *Exercise) IsGlobal() bool {
	return e.UserID == ""
}

// VisibleTo reports whether userID may log against this exercise
func (e *Exercise) VisibleTo(userID string) bool {
	return e.IsGlobal() || e.UserID == userID
}

type ExerciseRepository interface {
	Create(ctx context.Context, exercise *Exercise) error
	GetByID(ctx context.Context, id string) (*Exercise, error)
	// ListVisible returns global exercises plus the ones owned by userID
	ListVisible(ctx context.Context, userID string) ([]*Exercise, error)
	Update(ctx context.Context, exercise *Exercise) error
	Delete(ctx context.Context, id string) error
}
