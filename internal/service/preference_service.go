package service

import (
	"context"
	"time"

	"github.com/mansoorceksport/liftlog/internal/domain"
)

type PreferenceService struct {
	repo domain.UserPreferenceRepository
}

func NewPreferenceService(repo domain.UserPreferenceRepository) *PreferenceService {
	return &PreferenceService{repo: repo}
}

// Get returns the stored preferences or the defaults
func (s *PreferenceService) Get(ctx context.Context, userID string) (*domain.UserPreferences, error) {
	prefs, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return domain.DefaultPreferences(userID), nil
	}
	return prefs, nil
}

func (s *PreferenceService) Update(ctx context.Context, userID string, showExtraWeight bool) (*domain.UserPreferences, error) {
	prefs := &domain.UserPreferences{
		UserID:          userID,
		ShowExtraWeight: showExtraWeight,
		UpdatedAt:       time.Now(),
	}
	if err := s.repo.Upsert(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}
