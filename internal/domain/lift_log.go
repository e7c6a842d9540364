package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrLiftLogNotFound = errors.New("lift log not found")
	ErrEmptyLiftLog    = errors.New("lift log must contain at least one set")
)

// LiftSet is a single set inside a LiftLog. Pointer fields are nil when the
// exercise type does not use them (e.g. Weight for banded work).
type LiftSet struct {
	SetIndex    int      `json:"set_index" bson:"set_index"` // 1-based
	Weight      *float64 `json:"weight" bson:"weight"`
	Reps        *int     `json:"reps" bson:"reps"`
	HoldSeconds *float64 `json:"hold_seconds,omitempty" bson:"hold_seconds,omitempty"`
	BandColor   *string  `json:"band_color" bson:"band_color"`
	Notes       string   `json:"notes,omitempty" bson:"notes,omitempty"`
}

// WeightValue returns the set weight, 0 when absent
func (s LiftSet) WeightValue() float64 {
	if s.Weight == nil {
		return 0
	}
	return *s.Weight
}

// RepsValue returns the set reps, 0 when absent
func (s LiftSet) RepsValue() int {
	if s.Reps == nil {
		return 0
	}
	return *s.Reps
}

// HoldValue returns the hold duration in seconds, 0 when absent
func (s LiftSet) HoldValue() float64 {
	if s.HoldSeconds == nil {
		return 0
	}
	return *s.HoldSeconds
}

// BandColorValue returns the band color, "" when absent
func (s LiftSet) BandColorValue() string {
	if s.BandColor == nil {
		return ""
	}
	return *s.BandColor
}

// LiftLog is one user's session on one exercise ("logged performance").
// A LiftLog always owns at least one set.
type LiftLog struct {
	ID         string     `json:"id" bson:"_id,omitempty"`
	ClientID   string     `json:"client_id,omitempty" bson:"client_id,omitempty"` // Frontend ULID for dual-identity
	UserID     string     `json:"user_id" bson:"user_id"`
	ExerciseID string     `json:"exercise_id" bson:"exercise_id"`
	LoggedAt   time.Time  `json:"logged_at" bson:"logged_at"`
	Comments   string     `json:"comments,omitempty" bson:"comments,omitempty"`
	Sets       []LiftSet  `json:"sets" bson:"sets"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty" bson:"deleted_at,omitempty"` // Soft delete timestamp
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" bson:"updated_at"`
}

// IsDeleted reports whether the log was soft deleted
func (l *LiftLog) IsDeleted() bool {
	return l.DeletedAt != nil
}

// LiftLogRepository handles persistence of logged performances
type LiftLogRepository interface {
	Create(ctx context.Context, log *LiftLog) error
	GetByID(ctx context.Context, id string) (*LiftLog, error)
	// Update replaces logged_at, comments and sets
	Update(ctx context.Context, log *LiftLog) error
	// SoftDelete sets deleted_at instead of removing (records keep their source reference)
	SoftDelete(ctx context.Context, id string) error
	// GetFirstCreatedByUserAndExercise returns the earliest created non-deleted
	// log, nil when none exists. A backdated log is never first by this order.
	GetFirstCreatedByUserAndExercise(ctx context.Context, userID, exerciseID string) (*LiftLog, error)
	// ListByUserAndExercise returns non-deleted logs in chronological order
	ListByUserAndExercise(ctx context.Context, userID, exerciseID string) ([]*LiftLog, error)
	// CountByExercise counts non-deleted logs across all users
	CountByExercise(ctx context.Context, exerciseID string) (int64, error)
}
