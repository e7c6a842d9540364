package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/mansoorceksport/liftlog/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// recordHead points at the current record of one category key
type recordHead struct {
	Key        string    `bson:"_id"`
	UserID     string    `bson:"user_id"`
	ExerciseID string    `bson:"exercise_id"`
	RecordID   string    `bson:"record_id"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

// MongoPersonalRecordRepository keeps records append-only in personal_records
// and one head document per category key in personal_record_heads. Moving a
// head is a compare-and-swap on its record_id, and a unique index on
// previous_record_id rejects a second successor of the same record.
//
// A record inserted without its head swap (a crash in between, or a failed
// cleanup) is an orphan. Orphans never appear in a chain, and an orphan
// blocking the next successor of a head is removed once it is older than
// orphanGrace.
type MongoPersonalRecordRepository struct {
	records     *mongo.Collection
	heads       *mongo.Collection
	orphanGrace time.Duration
}

// defaultOrphanGrace is far longer than any insert-to-swap window
const defaultOrphanGrace = time.Minute

func NewMongoPersonalRecordRepository(db *mongo.Database) *MongoPersonalRecordRepository {
	records := db.Collection("personal_records")
	heads := db.Collection("personal_record_heads")

	ensureIndexes(records,
		mongo.IndexModel{
			Keys: bson.M{"previous_record_id": 1},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"previous_record_id": bson.M{"$exists": true}}),
		},
		mongo.IndexModel{Keys: bson.D{{Key: "category_key", Value: 1}, {Key: "created_at", Value: -1}}},
		mongo.IndexModel{Keys: bson.M{"lift_log_id": 1}},
	)
	ensureIndexes(heads, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "exercise_id", Value: 1}},
	})

	return &MongoPersonalRecordRepository{
		records:     records,
		heads:       heads,
		orphanGrace: defaultOrphanGrace,
	}
}

func (r *MongoPersonalRecordRepository) GetCurrent(ctx context.Context, key domain.RecordKey) (*domain.PersonalRecord, error) {
	var head recordHead
	err := r.heads.FindOne(ctx, bson.M{"_id": key.String()}).Decode(&head)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Chain not started
		}
		return nil, err
	}
	return r.getByID(ctx, head.RecordID)
}

func (r *MongoPersonalRecordRepository) ListCurrent(ctx context.Context, userID, exerciseID string) ([]*domain.PersonalRecord, error) {
	cursor, err := r.heads.Find(ctx, bson.M{"user_id": userID, "exercise_id": exerciseID})
	if err != nil {
		return nil, err
	}
	var heads []recordHead
	if err := cursor.All(ctx, &heads); err != nil {
		return nil, err
	}
	if len(heads) == 0 {
		return nil, nil
	}

	oids := make([]primitive.ObjectID, 0, len(heads))
	for _, h := range heads {
		oid, err := primitive.ObjectIDFromHex(h.RecordID)
		if err != nil {
			return nil, fmt.Errorf("corrupt head %s: %w", h.Key, domain.ErrInvalidID)
		}
		oids = append(oids, oid)
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, nil)
}

// Supersede inserts rec and swaps the category head from expected to rec.
// When the swap loses a race the inserted record is removed again, even if
// ctx has been cancelled meanwhile.
func (r *MongoPersonalRecordRepository) Supersede(ctx context.Context, rec *domain.PersonalRecord, expected *domain.PersonalRecord) error {
	key := rec.Key()
	rec.ID = ""
	rec.CategoryKey = key.String()
	rec.CreatedAt = time.Now()
	if expected != nil {
		prev := expected.Value
		rec.PreviousRecordID = expected.ID
		rec.PreviousValue = &prev
	} else {
		rec.PreviousRecordID = ""
		rec.PreviousValue = nil
	}

	oid, err := r.insert(ctx, rec)
	if errors.Is(err, domain.ErrRecordConflict) && expected != nil {
		removed, rerr := r.removeOrphanSuccessor(ctx, rec.CategoryKey, expected)
		if rerr != nil {
			return rerr
		}
		if removed {
			oid, err = r.insert(ctx, rec)
		}
	}
	if err != nil {
		return err
	}
	rec.ID = oid.Hex()

	swapped, err := r.swapHead(ctx, rec, expected)
	if err == nil && swapped {
		return nil
	}
	rec.ID = ""
	if err != nil {
		err = fmt.Errorf("failed to move record head: %w", err)
	} else {
		err = domain.ErrRecordConflict
	}
	if _, derr := r.records.DeleteOne(context.WithoutCancel(ctx), bson.M{"_id": oid}); derr != nil {
		err = multierr.Append(err, fmt.Errorf("failed to remove unlinked record %s: %w", oid.Hex(), derr))
	}
	return err
}

func (r *MongoPersonalRecordRepository) insert(ctx context.Context, rec *domain.PersonalRecord) (primitive.ObjectID, error) {
	result, err := r.records.InsertOne(ctx, rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, domain.ErrRecordConflict // expected already has a successor
		}
		return primitive.NilObjectID, fmt.Errorf("failed to insert personal record: %w", err)
	}
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected personal record id type %T", result.InsertedID)
	}
	return oid, nil
}

// removeOrphanSuccessor deletes the successor of expected when no head
// references it and it is older than orphanGrace. A younger successor may
// belong to a writer that has not swapped the head yet, so it is left alone.
func (r *MongoPersonalRecordRepository) removeOrphanSuccessor(ctx context.Context, key string, expected *domain.PersonalRecord) (bool, error) {
	var successor domain.PersonalRecord
	err := r.records.FindOne(ctx, bson.M{"previous_record_id": expected.ID}).Decode(&successor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, fmt.Errorf("failed to load successor of %s: %w", expected.ID, err)
	}
	if time.Since(successor.CreatedAt) < r.orphanGrace {
		return false, nil
	}

	var head recordHead
	err = r.heads.FindOne(ctx, bson.M{"_id": key}).Decode(&head)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, fmt.Errorf("failed to load record head: %w", err)
	}
	if head.RecordID != expected.ID {
		return false, nil
	}

	oid, err := primitive.ObjectIDFromHex(successor.ID)
	if err != nil {
		return false, fmt.Errorf("invalid successor id %q: %w", successor.ID, err)
	}
	result, err := r.records.DeleteOne(ctx, bson.M{"_id": oid, "previous_record_id": expected.ID})
	if err != nil {
		return false, fmt.Errorf("failed to remove orphaned record %s: %w", successor.ID, err)
	}
	log.WithFields(log.Fields{
		"record_id":   successor.ID,
		"key":         key,
		"lift_log_id": successor.LiftLogID,
	}).Warn("removed orphaned personal record")
	return result.DeletedCount == 1, nil
}

func (r *MongoPersonalRecordRepository) swapHead(ctx context.Context, rec, expected *domain.PersonalRecord) (bool, error) {
	now := time.Now()
	if expected == nil {
		_, err := r.heads.InsertOne(ctx, recordHead{
			Key:        rec.CategoryKey,
			UserID:     rec.UserID,
			ExerciseID: rec.ExerciseID,
			RecordID:   rec.ID,
			UpdatedAt:  now,
		})
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return err == nil, err
	}

	result, err := r.heads.UpdateOne(ctx,
		bson.M{"_id": rec.CategoryKey, "record_id": expected.ID},
		bson.M{"$set": bson.M{"record_id": rec.ID, "updated_at": now}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount == 1, nil
}

func (r *MongoPersonalRecordRepository) GetByLiftLog(ctx context.Context, liftLogID string) ([]*domain.PersonalRecord, error) {
	return r.find(ctx, bson.M{"lift_log_id": liftLogID}, options.Find().SetSort(bson.M{"created_at": 1}))
}

// GetChain walks the chain from the head back to its root. Records no head
// ever reached are not part of it.
func (r *MongoPersonalRecordRepository) GetChain(ctx context.Context, key domain.RecordKey) ([]*domain.PersonalRecord, error) {
	var head recordHead
	err := r.heads.FindOne(ctx, bson.M{"_id": key.String()}).Decode(&head)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	recs, err := r.find(ctx, bson.M{"category_key": key.String()}, options.Find())
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.PersonalRecord, len(recs))
	for _, rec := range recs {
		byID[rec.ID] = rec
	}

	chain := make([]*domain.PersonalRecord, 0, len(recs))
	for id := head.RecordID; id != ""; {
		rec, ok := byID[id]
		if !ok || len(chain) == len(recs) {
			break
		}
		chain = append(chain, rec)
		id = rec.PreviousRecordID
	}
	return chain, nil
}

func (r *MongoPersonalRecordRepository) getByID(ctx context.Context, id string) (*domain.PersonalRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var rec domain.PersonalRecord
	err = r.records.FindOne(ctx, bson.M{"_id": oid}).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *MongoPersonalRecordRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.PersonalRecord, error) {
	cursor, err := r.records.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recs []*domain.PersonalRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
