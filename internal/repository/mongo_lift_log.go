package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mansoorceksport/liftlog/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoLiftLogRepository struct {
	collection *mongo.Collection
}

func NewMongoLiftLogRepository(db *mongo.Database) *MongoLiftLogRepository {
	coll := db.Collection("lift_logs")

	ensureIndexes(coll,
		mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "exercise_id", Value: 1}, {Key: "logged_at", Value: 1}}},
		mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "exercise_id", Value: 1}, {Key: "created_at", Value: 1}}},
		mongo.IndexModel{Keys: bson.M{"exercise_id": 1}},
	)

	return &MongoLiftLogRepository{
		collection: coll,
	}
}

// notDeleted matches logs without a deleted_at timestamp
var notDeleted = bson.M{"$exists": false}

func (r *MongoLiftLogRepository) Create(ctx context.Context, log *domain.LiftLog) error {
	if len(log.Sets) == 0 {
		return domain.ErrEmptyLiftLog
	}
	log.CreatedAt = time.Now()
	log.UpdatedAt = log.CreatedAt

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to create lift log: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		log.ID = oid.Hex()
	}
	return nil
}

func (r *MongoLiftLogRepository) GetByID(ctx context.Context, id string) (*domain.LiftLog, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var log domain.LiftLog
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&log)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrLiftLogNotFound
		}
		return nil, err
	}
	return &log, nil
}

func (r *MongoLiftLogRepository) Update(ctx context.Context, log *domain.LiftLog) error {
	if len(log.Sets) == 0 {
		return domain.ErrEmptyLiftLog
	}
	oid, err := primitive.ObjectIDFromHex(log.ID)
	if err != nil {
		return domain.ErrInvalidID
	}

	log.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"logged_at":  log.LoggedAt,
			"comments":   log.Comments,
			"sets":       log.Sets,
			"updated_at": log.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid, "deleted_at": notDeleted}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrLiftLogNotFound
	}
	return nil
}

func (r *MongoLiftLogRepository) SoftDelete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	now := time.Now()
	update := bson.M{"$set": bson.M{"deleted_at": now, "updated_at": now}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid, "deleted_at": notDeleted}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrLiftLogNotFound
	}
	return nil
}

func (r *MongoLiftLogRepository) GetFirstCreatedByUserAndExercise(ctx context.Context, userID, exerciseID string) (*domain.LiftLog, error) {
	filter := bson.M{"user_id": userID, "exercise_id": exerciseID, "deleted_at": notDeleted}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	var log domain.LiftLog
	err := r.collection.FindOne(ctx, filter, opts).Decode(&log)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

func (r *MongoLiftLogRepository) ListByUserAndExercise(ctx context.Context, userID, exerciseID string) ([]*domain.LiftLog, error) {
	filter := bson.M{"user_id": userID, "exercise_id": exerciseID, "deleted_at": notDeleted}
	opts := options.Find().SetSort(bson.D{{Key: "logged_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []*domain.LiftLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// ListExerciseIDsByUser returns the distinct exercises a user has logged
func (r *MongoLiftLogRepository) ListExerciseIDsByUser(ctx context.Context, userID string) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "exercise_id", bson.M{"user_id": userID, "deleted_at": notDeleted})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			ids = append(ids, s)
		}
	}
	return ids, nil
}

func (r *MongoLiftLogRepository) CountByExercise(ctx context.Context, exerciseID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"exercise_id": exerciseID, "deleted_at": notDeleted})
}
