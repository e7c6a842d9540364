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

type MongoDetectionAuditRepository struct {
	collection *mongo.Collection
}

func NewMongoDetectionAuditRepository(db *mongo.Database) *MongoDetectionAuditRepository {
	coll := db.Collection("detection_audits")

	ensureIndexes(coll, mongo.IndexModel{
		Keys: bson.D{{Key: "lift_log_id", Value: 1}, {Key: "fingerprint", Value: 1}},
	})

	return &MongoDetectionAuditRepository{
		collection: coll,
	}
}

func (r *MongoDetectionAuditRepository) Create(ctx context.Context, audit *domain.DetectionAudit) error {
	if audit.CreatedAt.IsZero() {
		audit.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, audit)
	if err != nil {
		return fmt.Errorf("failed to create detection audit: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		audit.ID = oid.Hex()
	}
	return nil
}

func (r *MongoDetectionAuditRepository) ExistsForFingerprint(ctx context.Context, liftLogID, fingerprint string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx,
		bson.M{"lift_log_id": liftLogID, "fingerprint": fingerprint},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *MongoDetectionAuditRepository) ListByLiftLog(ctx context.Context, liftLogID string) ([]*domain.DetectionAudit, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"lift_log_id": liftLogID}, options.Find().SetSort(bson.M{"created_at": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var audits []*domain.DetectionAudit
	if err := cursor.All(ctx, &audits); err != nil {
		return nil, err
	}
	return audits, nil
}
