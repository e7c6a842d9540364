package domain

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotFound       = errors.New("record not found")
	ErrForbidden      = errors.New("access forbidden: you don't own this resource")
	ErrInvalidID      = errors.New("invalid id")
	ErrRecordConflict = errors.New("personal record head moved concurrently")
)

// ErrInvalidPerformanceData is matched by every *InvalidPerformanceDataError
var ErrInvalidPerformanceData = errors.New("invalid performance data")

// ErrUnknownExerciseType is matched by every *UnknownExerciseTypeError
var ErrUnknownExerciseType = errors.New("unknown exercise type")

// InvalidPerformanceDataError names the exercise type and the offending field.
// Value is empty when the field was missing altogether.
type InvalidPerformanceDataError struct {
	ExerciseType ExerciseType `json:"exercise_type"`
	Field        string       `json:"field"`
	Value        string       `json:"value,omitempty"`
	Reason       string       `json:"reason"`
}

func (e *InvalidPerformanceDataError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid performance data for %s: %s %s", e.ExerciseType, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid performance data for %s: %s=%q %s", e.ExerciseType, e.Field, e.Value, e.Reason)
}

func (e *InvalidPerformanceDataError) Is(target error) bool {
	return target == ErrInvalidPerformanceData
}

// UnknownExerciseTypeError is returned by strict strategy resolution
type UnknownExerciseTypeError struct {
	Type string
}

func (e *UnknownExerciseTypeError) Error() string {
	return fmt.Sprintf("unknown exercise type %q", e.Type)
}

func (e *UnknownExerciseTypeError) Is(target error) bool {
	return target == ErrUnknownExerciseType
}
