package service_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"

	"github.com/mansoorceksport/liftlog/internal/domain"
	"github.com/mansoorceksport/liftlog/internal/exercisetype"
	"github.com/mansoorceksport/liftlog/internal/metrics"
	"github.com/mansoorceksport/liftlog/internal/repository"
	"github.com/mansoorceksport/liftlog/internal/service"
)

type fakeLiftLogRepo struct {
	mu   sync.Mutex
	logs map[string]*domain.LiftLog
}

func newFakeLiftLogRepo() *fakeLiftLogRepo {
	return &fakeLiftLogRepo{logs: make(map[string]*domain.LiftLog)}
}

func (r *fakeLiftLogRepo) Create(_ context.Context, l *domain.LiftLog) error {
	if len(l.Sets) == 0 {
		return domain.ErrEmptyLiftLog
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == "" {
		l.ID = ulid.Make().String()
	}
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	cp := *l
	r.logs[l.ID] = &cp
	return nil
}

func (r *fakeLiftLogRepo) GetByID(_ context.Context, id string) (*domain.LiftLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logs[id]
	if !ok {
		return nil, domain.ErrLiftLogNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeLiftLogRepo) Update(_ context.Context, l *domain.LiftLog) error {
	if len(l.Sets) == 0 {
		return domain.ErrEmptyLiftLog
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.logs[l.ID]; !ok {
		return domain.ErrLiftLogNotFound
	}
	l.UpdatedAt = time.Now()
	cp := *l
	r.logs[l.ID] = &cp
	return nil
}

func (r *fakeLiftLogRepo) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logs[id]
	if !ok || l.IsDeleted() {
		return domain.ErrLiftLogNotFound
	}
	now := time.Now()
	l.DeletedAt = &now
	return nil
}

func (r *fakeLiftLogRepo) GetFirstCreatedByUserAndExercise(ctx context.Context, userID, exerciseID string) (*domain.LiftLog, error) {
	logs, _ := r.ListByUserAndExercise(ctx, userID, exerciseID)
	if len(logs) == 0 {
		return nil, nil
	}
	sort.Slice(logs, func(i, j int) bool {
		if !logs[i].CreatedAt.Equal(logs[j].CreatedAt) {
			return logs[i].CreatedAt.Before(logs[j].CreatedAt)
		}
		return logs[i].ID < logs[j].ID
	})
	return logs[0], nil
}

func (r *fakeLiftLogRepo) ListByUserAndExercise(_ context.Context, userID, exerciseID string) ([]*domain.LiftLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.LiftLog
	for _, l := range r.logs {
		if l.UserID == userID && l.ExerciseID == exerciseID && !l.IsDeleted() {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LoggedAt.Equal(out[j].LoggedAt) {
			return out[i].LoggedAt.Before(out[j].LoggedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeLiftLogRepo) CountByExercise(_ context.Context, exerciseID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, l := range r.logs {
		if l.ExerciseID == exerciseID && !l.IsDeleted() {
			n++
		}
	}
	return n, nil
}

type fakeExerciseRepo struct {
	mu        sync.Mutex
	exercises map[string]*domain.Exercise
}

func newFakeExerciseRepo(exercises ...*domain.Exercise) *fakeExerciseRepo {
	r := &fakeExerciseRepo{exercises: make(map[string]*domain.Exercise)}
	for _, ex := range exercises {
		r.exercises[ex.ID] = ex
	}
	return r
}

func (r *fakeExerciseRepo) Create(_ context.Context, ex *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.exercises {
		if other.UserID == ex.UserID && other.Title == ex.Title {
			return domain.ErrDuplicateExercise
		}
	}
	ex.ID = ulid.Make().String()
	cp := *ex
	r.exercises[ex.ID] = &cp
	return nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id string) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ex, ok := r.exercises[id]
	if !ok {
		return nil, domain.ErrExerciseNotFound
	}
	cp := *ex
	return &cp, nil
}

func (r *fakeExerciseRepo) ListVisible(_ context.Context, userID string) ([]*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Exercise
	for _, ex := range r.exercises {
		if ex.VisibleTo(userID) {
			cp := *ex
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, ex *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exercises[ex.ID]; !ok {
		return domain.ErrExerciseNotFound
	}
	cp := *ex
	r.exercises[ex.ID] = &cp
	return nil
}

func (r *fakeExerciseRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.exercises, id)
	return nil
}

type fakePreferenceRepo struct {
	mu    sync.Mutex
	prefs map[string]*domain.UserPreferences
}

func newFakePreferenceRepo() *fakePreferenceRepo {
	return &fakePreferenceRepo{prefs: make(map[string]*domain.UserPreferences)}
}

func (r *fakePreferenceRepo) Get(_ context.Context, userID string) (*domain.UserPreferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prefs[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePreferenceRepo) Upsert(_ context.Context, p *domain.UserPreferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.prefs[p.UserID] = &cp
	return nil
}

// conflictingRecordStore loses the first n head swaps to a phantom writer
type conflictingRecordStore struct {
	*repository.MemoryPersonalRecordRepository
	mu        sync.Mutex
	conflicts int
	calls     int
}

func (s *conflictingRecordStore) Supersede(ctx context.Context, rec, expected *domain.PersonalRecord) error {
	s.mu.Lock()
	s.calls++
	if s.conflicts > 0 {
		s.conflicts--
		s.mu.Unlock()
		return domain.ErrRecordConflict
	}
	s.mu.Unlock()
	return s.MemoryPersonalRecordRepository.Supersede(ctx, rec, expected)
}

func (s *conflictingRecordStore) setConflicts(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conflicts = n
}

const testUser = "user-1"

var (
	benchPress = &domain.Exercise{ID: "ex-bench", Title: "Bench Press", ExerciseType: domain.ExerciseTypeRegular}
	pullUp     = &domain.Exercise{ID: "ex-pullup", Title: "Assisted Pull Up", ExerciseType: domain.ExerciseTypeBandedAssistance}
	dips       = &domain.Exercise{ID: "ex-dips", Title: "Dips", ExerciseType: domain.ExerciseTypeBodyweight}
	plank      = &domain.Exercise{ID: "ex-plank", Title: "Plank", ExerciseType: domain.ExerciseTypeStaticHold}
)

type fixture struct {
	registry    *exercisetype.Registry
	exercises   *fakeExerciseRepo
	logs        *fakeLiftLogRepo
	prefs       *fakePreferenceRepo
	records     *repository.MemoryPersonalRecordRepository
	audits      *repository.MemoryDetectionAuditRepository
	metrics     *metrics.Manager
	detector    *service.PRDetectionService
	comparison  *service.ComparisonService
	performance *service.PerformanceService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		registry:  exercisetype.NewRegistry(exercisetype.NewBandTable(exercisetype.DefaultBands)),
		exercises: newFakeExerciseRepo(clone(benchPress), clone(pullUp), clone(dips), clone(plank)),
		logs:      newFakeLiftLogRepo(),
		prefs:     newFakePreferenceRepo(),
		records:   repository.NewMemoryPersonalRecordRepository(),
		audits:    repository.NewMemoryDetectionAuditRepository(),
		metrics:   metrics.NewTestManager(),
	}
	f.detector = service.NewPRDetectionService(f.registry, f.records, f.audits, repository.NewLocalLocker(), f.metrics, 3)
	f.comparison = service.NewComparisonService(f.registry, f.logs, f.records)
	f.performance = service.NewPerformanceService(
		f.exercises,
		f.logs,
		service.NewPreferenceService(f.prefs),
		f.registry,
		f.detector,
		f.comparison,
	)
	return f
}

// useRecordStore rewires detection, comparison and performance onto store
func (f *fixture) useRecordStore(store domain.PersonalRecordRepository) {
	f.detector = service.NewPRDetectionService(f.registry, store, f.audits, repository.NewLocalLocker(), f.metrics, 3)
	f.comparison = service.NewComparisonService(f.registry, f.logs, store)
	f.performance = service.NewPerformanceService(
		f.exercises,
		f.logs,
		service.NewPreferenceService(f.prefs),
		f.registry,
		f.detector,
		f.comparison,
	)
}

func clone(ex *domain.Exercise) *domain.Exercise {
	cp := *ex
	return &cp
}

// storeLog persists a log directly, bypassing the performance service
func (f *fixture) storeLog(t *testing.T, exercise *domain.Exercise, at time.Time, sets ...domain.LiftSet) *domain.LiftLog {
	t.Helper()
	for i := range sets {
		sets[i].SetIndex = i + 1
	}
	l := &domain.LiftLog{UserID: testUser, ExerciseID: exercise.ID, LoggedAt: at, Sets: sets}
	require.NoError(t, f.logs.Create(context.Background(), l))
	return l
}

func weightSet(weight float64, reps int) domain.LiftSet {
	return domain.LiftSet{Weight: &weight, Reps: &reps}
}

func bandSet(color string, reps int) domain.LiftSet {
	return domain.LiftSet{BandColor: &color, Reps: &reps}
}

func holdSet(seconds float64) domain.LiftSet {
	return domain.LiftSet{HoldSeconds: &seconds}
}

func day(n int) time.Time {
	return time.Date(2026, 3, n, 18, 0, 0, 0, time.UTC)
}
