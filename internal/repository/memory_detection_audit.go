package repository

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mansoorceksport/liftlog/internal/domain"
)

type MemoryDetectionAuditRepository struct {
	mu     sync.RWMutex
	audits []*domain.DetectionAudit
}

func NewMemoryDetectionAuditRepository() *MemoryDetectionAuditRepository {
	return &MemoryDetectionAuditRepository{}
}

func (r *MemoryDetectionAuditRepository) Create(_ context.Context, audit *domain.DetectionAudit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	audit.ID = ulid.Make().String()
	if audit.CreatedAt.IsZero() {
		audit.CreatedAt = time.Now()
	}
	c := *audit
	r.audits = append(r.audits, &c)
	return nil
}

func (r *MemoryDetectionAuditRepository) ExistsForFingerprint(_ context.Context, liftLogID, fingerprint string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.audits {
		if a.LiftLogID == liftLogID && a.Fingerprint == fingerprint {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryDetectionAuditRepository) ListByLiftLog(_ context.Context, liftLogID string) ([]*domain.DetectionAudit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.DetectionAudit
	for _, a := range r.audits {
		if a.LiftLogID == liftLogID {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}
