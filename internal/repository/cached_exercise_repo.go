package repository

import (
	"context"
	"time"

	"github.com/mansoorceksport/liftlog/internal/domain"
)

const (
	exerciseByIDKeyPrefix      = "exercise:id:"
	exerciseVisibleKeyPrefix   = "exercise:visible:"
	exerciseVisibleKeyWildcard = exerciseVisibleKeyPrefix + "*"
	exerciseCacheTTL           = 10 * time.Minute
)

// CachedExerciseRepository wraps an ExerciseRepository with Redis caching.
// Exercises are read on every logged performance and change rarely.
type CachedExerciseRepository struct {
	repo  domain.ExerciseRepository
	cache *RedisCacheRepository
}

// NewCachedExerciseRepository creates a new cached exercise repository
func NewCachedExerciseRepository(repo domain.ExerciseRepository, cache *RedisCacheRepository) *CachedExerciseRepository {
	return &CachedExerciseRepository{
		repo:  repo,
		cache: cache,
	}
}

// GetByID retrieves an exercise with caching
func (r *CachedExerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	key := exerciseByIDKeyPrefix + id

	var ex domain.Exercise
	if err := r.cache.Get(ctx, key, &ex); err == nil {
		return &ex, nil
	}

	result, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Store in cache (ignore cache errors)
	_ = r.cache.Set(ctx, key, result, exerciseCacheTTL)

	return result, nil
}

// ListVisible retrieves the user's visible exercises with caching
func (r *CachedExerciseRepository) ListVisible(ctx context.Context, userID string) ([]*domain.Exercise, error) {
	key := exerciseVisibleKeyPrefix + userID

	var exercises []*domain.Exercise
	if err := r.cache.Get(ctx, key, &exercises); err == nil {
		return exercises, nil
	}

	result, err := r.repo.ListVisible(ctx, userID)
	if err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, key, result, exerciseCacheTTL)

	return result, nil
}

// Create creates an exercise and invalidates the affected lists
func (r *CachedExerciseRepository) Create(ctx context.Context, ex *domain.Exercise) error {
	if err := r.repo.Create(ctx, ex); err != nil {
		return err
	}
	r.invalidateLists(ctx, ex)
	return nil
}

// Update updates an exercise and invalidates caches
func (r *CachedExerciseRepository) Update(ctx context.Context, ex *domain.Exercise) error {
	if err := r.repo.Update(ctx, ex); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, exerciseByIDKeyPrefix+ex.ID)
	r.invalidateLists(ctx, ex)
	return nil
}

// Delete deletes an exercise and invalidates caches
func (r *CachedExerciseRepository) Delete(ctx context.Context, id string) error {
	// Get exercise first to know the owner for list invalidation
	ex, _ := r.repo.GetByID(ctx, id)

	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	_ = r.cache.Delete(ctx, exerciseByIDKeyPrefix+id)
	if ex != nil {
		r.invalidateLists(ctx, ex)
	}
	return nil
}

// invalidateLists drops the owner's list, or every list for a global exercise
func (r *CachedExerciseRepository) invalidateLists(ctx context.Context, ex *domain.Exercise) {
	if ex.IsGlobal() {
		_ = r.cache.DeleteByPattern(ctx, exerciseVisibleKeyWildcard)
		return
	}
	_ = r.cache.Delete(ctx, exerciseVisibleKeyPrefix+ex.UserID)
}
