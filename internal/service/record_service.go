package service

import (
	"context"

	"github.com/mansoorceksport/liftlog/internal/domain"
)

// RecordService answers read-only questions about personal records
type RecordService struct {
	exercises domain.ExerciseRepository
	records   domain.PersonalRecordRepository
}

func NewRecordService(exercises domain.ExerciseRepository, records domain.PersonalRecordRepository) *RecordService {
	return &RecordService{
		exercises: exercises,
		records:   records,
	}
}

// Current lists the unbeaten records of a user on an exercise, in display order
func (s *RecordService) Current(ctx context.Context, userID, exerciseID string) ([]*domain.PersonalRecord, error) {
	if err := s.checkVisible(ctx, userID, exerciseID); err != nil {
		return nil, err
	}
	recs, err := s.records.ListCurrent(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}
	sortRecords(recs)
	return recs, nil
}

// History returns one supersession chain, newest first
func (s *RecordService) History(ctx context.Context, userID, exerciseID string, prType domain.PRType, discriminator *float64) ([]*domain.PersonalRecord, error) {
	if err := s.checkVisible(ctx, userID, exerciseID); err != nil {
		return nil, err
	}
	if prType.Rank() == len(domain.PRTypeOrder) {
		return nil, domain.ErrUnknownPRType
	}
	if !prType.HasDiscriminator() {
		discriminator = nil
	}
	return s.records.GetChain(ctx, domain.RecordKey{
		UserID:        userID,
		ExerciseID:    exerciseID,
		PRType:        prType,
		Discriminator: discriminator,
	})
}

func (s *RecordService) checkVisible(ctx context.Context, userID, exerciseID string) error {
	exercise, err := s.exercises.GetByID(ctx, exerciseID)
	if err != nil {
		return err
	}
	if !exercise.VisibleTo(userID) {
		return domain.ErrForbidden
	}
	return nil
}
