package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mansoorceksport/liftlog/internal/domain"
)

// MemoryPersonalRecordRepository has the same head semantics as the Mongo
// store. The replay tool uses it for dry runs.
type MemoryPersonalRecordRepository struct {
	mu         sync.RWMutex
	records    map[string]*domain.PersonalRecord
	order      []string          // insertion order
	heads      map[string]string // category key -> record id
	successors map[string]string // record id -> id of the record that beat it
}

func NewMemoryPersonalRecordRepository() *MemoryPersonalRecordRepository {
	return &MemoryPersonalRecordRepository{
		records:    make(map[string]*domain.PersonalRecord),
		heads:      make(map[string]string),
		successors: make(map[string]string),
	}
}

func (r *MemoryPersonalRecordRepository) GetCurrent(_ context.Context, key domain.RecordKey) (*domain.PersonalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.heads[key.String()]
	if !ok {
		return nil, nil
	}
	return cloneRecord(r.records[id]), nil
}

func (r *MemoryPersonalRecordRepository) ListCurrent(_ context.Context, userID, exerciseID string) ([]*domain.PersonalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.PersonalRecord
	for _, id := range r.heads {
		rec := r.records[id]
		if rec.UserID == userID && rec.ExerciseID == exerciseID {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CategoryKey < out[j].CategoryKey
	})
	return out, nil
}

func (r *MemoryPersonalRecordRepository) Supersede(_ context.Context, rec *domain.PersonalRecord, expected *domain.PersonalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := rec.Key().String()
	headID, hasHead := r.heads[key]
	if expected == nil {
		if hasHead {
			return domain.ErrRecordConflict
		}
	} else {
		if !hasHead || headID != expected.ID {
			return domain.ErrRecordConflict
		}
		if _, beaten := r.successors[expected.ID]; beaten {
			return domain.ErrRecordConflict
		}
	}

	rec.ID = ulid.Make().String()
	rec.CategoryKey = key
	rec.CreatedAt = time.Now()
	rec.PreviousRecordID = ""
	rec.PreviousValue = nil
	if expected != nil {
		prev := expected.Value
		rec.PreviousRecordID = expected.ID
		rec.PreviousValue = &prev
		r.successors[expected.ID] = rec.ID
	}

	r.records[rec.ID] = cloneRecord(rec)
	r.order = append(r.order, rec.ID)
	r.heads[key] = rec.ID
	return nil
}

func (r *MemoryPersonalRecordRepository) GetByLiftLog(_ context.Context, liftLogID string) ([]*domain.PersonalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.PersonalRecord
	for _, id := range r.order {
		if rec := r.records[id]; rec.LiftLogID == liftLogID {
			out = append(out, cloneRecord(rec))
		}
	}
	return out, nil
}

func (r *MemoryPersonalRecordRepository) GetChain(_ context.Context, key domain.RecordKey) ([]*domain.PersonalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.PersonalRecord
	for id := r.heads[key.String()]; id != ""; {
		rec, ok := r.records[id]
		if !ok {
			break
		}
		out = append(out, cloneRecord(rec))
		id = rec.PreviousRecordID
	}
	return out, nil
}

// All returns every stored record in insertion order
func (r *MemoryPersonalRecordRepository) All() []*domain.PersonalRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.PersonalRecord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneRecord(r.records[id]))
	}
	return out
}

func cloneRecord(rec *domain.PersonalRecord) *domain.PersonalRecord {
	if rec == nil {
		return nil
	}
	c := *rec
	if rec.Discriminator != nil {
		d := *rec.Discriminator
		c.Discriminator = &d
	}
	if rec.PreviousValue != nil {
		p := *rec.PreviousValue
		c.PreviousValue = &p
	}
	return &c
}
