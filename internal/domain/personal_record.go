package domain

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
)

// PRType is the metric category a PersonalRecord tracks
type PRType string

const (
	PRTypeOneRM       PRType = "one_rm"
	PRTypeVolume      PRType = "volume"
	PRTypeRepSpecific PRType = "rep_specific"
	PRTypeHypertrophy PRType = "hypertrophy"
	PRTypeTime        PRType = "time"
)

var ErrUnknownPRType = errors.New("unknown pr type")

// PRTypeOrder is the display order of record categories
var PRTypeOrder = []PRType{
	PRTypeOneRM,
	PRTypeVolume,
	PRTypeRepSpecific,
	PRTypeHypertrophy,
	PRTypeTime,
}

// Rank returns the position of t in PRTypeOrder, unknown types sort last
func (t PRType) Rank() int {
	for i, o := range PRTypeOrder {
		if o == t {
			return i
		}
	}
	return len(PRTypeOrder)
}

// HasDiscriminator reports whether records of this type are further keyed
// (rep count for rep_specific, target weight for hypertrophy)
func (t PRType) HasDiscriminator() bool {
	return t == PRTypeRepSpecific || t == PRTypeHypertrophy
}

// RecordKey identifies one supersession chain
type RecordKey struct {
	UserID        string
	ExerciseID    string
	PRType        PRType
	Discriminator *float64
}

// String renders the canonical category key stored on heads and records
func (k RecordKey) String() string {
	var b strings.Builder
	b.WriteString(k.UserID)
	b.WriteByte('|')
	b.WriteString(k.ExerciseID)
	b.WriteByte('|')
	b.WriteString(string(k.PRType))
	b.WriteByte('|')
	if k.Discriminator != nil {
		b.WriteString(strconv.FormatFloat(*k.Discriminator, 'f', -1, 64))
	}
	return b.String()
}

// PersonalRecord is an append-only row; a new achievement never updates an
// existing record, it links back to the one it beat.
type PersonalRecord struct {
	ID               string    `json:"id" bson:"_id,omitempty"`
	UserID           string    `json:"user_id" bson:"user_id"`
	ExerciseID       string    `json:"exercise_id" bson:"exercise_id"`
	PRType           PRType    `json:"pr_type" bson:"pr_type"`
	Discriminator    *float64  `json:"discriminator,omitempty" bson:"discriminator,omitempty"`
	CategoryKey      string    `json:"-" bson:"category_key"`
	Value            float64   `json:"value" bson:"value"`
	AchievedAt       time.Time `json:"achieved_at" bson:"achieved_at"`
	LiftLogID        string    `json:"lift_log_id" bson:"lift_log_id"` // Performance where the PR was achieved
	PreviousRecordID string    `json:"previous_record_id,omitempty" bson:"previous_record_id,omitempty"`
	PreviousValue    *float64  `json:"previous_value,omitempty" bson:"previous_value,omitempty"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
}

// Key returns the chain this record belongs to
func (r *PersonalRecord) Key() RecordKey {
	return RecordKey{
		UserID:        r.UserID,
		ExerciseID:    r.ExerciseID,
		PRType:        r.PRType,
		Discriminator: r.Discriminator,
	}
}

// IsFirst reports whether the record has no predecessor
func (r *PersonalRecord) IsFirst() bool {
	return r.PreviousRecordID == ""
}

// PersonalRecordRepository stores supersession chains with one explicit
// current head per RecordKey.
type PersonalRecordRepository interface {
	// GetCurrent returns the unbeaten record of a chain, nil when the chain is empty
	GetCurrent(ctx context.Context, key RecordKey) (*PersonalRecord, error)
	// ListCurrent returns every current record of a user on an exercise
	ListCurrent(ctx context.Context, userID, exerciseID string) ([]*PersonalRecord, error)
	// Supersede appends rec and moves the head from expected (nil for a first
	// achievement) to rec. Returns ErrRecordConflict when the head is no longer expected.
	Supersede(ctx context.Context, rec *PersonalRecord, expected *PersonalRecord) error
	// GetByLiftLog returns the records created by a performance
	GetByLiftLog(ctx context.Context, liftLogID string) ([]*PersonalRecord, error)
	// GetChain returns a chain newest first
	GetChain(ctx context.Context, key RecordKey) ([]*PersonalRecord, error)
}

// Locker serializes detection per (user, exercise)
type Locker interface {
	// Lock blocks until the key is held or ctx is done. The returned func releases it.
	Lock(ctx context.Context, key string) (func() error, error)
}
