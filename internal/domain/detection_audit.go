package domain

import (
	"context"
	"time"
)

// Detection triggers
const (
	TriggerCreated = "created"
	TriggerUpdated = "updated"
	TriggerReplay  = "replay"
)

// DetectionAudit captures one detection run for replay and debugging.
// It is never used to re-derive record state.
type DetectionAudit struct {
	ID           string             `json:"id" bson:"_id,omitempty"`
	RunID        string             `json:"run_id" bson:"run_id"` // ULID
	UserID       string             `json:"user_id" bson:"user_id"`
	ExerciseID   string             `json:"exercise_id" bson:"exercise_id"`
	ExerciseType ExerciseType       `json:"exercise_type" bson:"exercise_type"`
	LiftLogID    string             `json:"lift_log_id" bson:"lift_log_id"`
	Trigger      string             `json:"trigger" bson:"trigger"`
	Fingerprint  string             `json:"fingerprint" bson:"fingerprint"`
	Snapshot     PerformanceMetrics `json:"snapshot" bson:"snapshot"`
	NewPRTypes   []PRType           `json:"new_pr_types" bson:"new_pr_types"`
	RecordIDs    []string           `json:"record_ids" bson:"record_ids"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// DetectionResult is returned to callers of the detection engine
type DetectionResult struct {
	RunID   string            `json:"run_id"`
	Skipped bool              `json:"skipped"` // identical performance already processed
	Created []*PersonalRecord `json:"created"`
}

// NewPRTypes lists the distinct record types created in this run
func (r *DetectionResult) NewPRTypes() []PRType {
	seen := make(map[PRType]bool)
	var types []PRType
	for _, rec := range r.Created {
		if !seen[rec.PRType] {
			seen[rec.PRType] = true
			types = append(types, rec.PRType)
		}
	}
	return types
}

//go:generate mockgen -source=$GOFILE -destination=../service/audit_mocks_test.go -package=service_test
type DetectionAuditRepository interface {
	Create(ctx context.Context, audit *DetectionAudit) error
	// ExistsForFingerprint reports whether a run already processed this exact performance content
	ExistsForFingerprint(ctx context.Context, liftLogID, fingerprint string) (bool, error)
	ListByLiftLog(ctx context.Context, liftLogID string) ([]*DetectionAudit, error)
}
