package repository

import (
	"context"
	"time"

	"github.com/mansoorceksport/liftlog/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoUserPreferenceRepository struct {
	collection *mongo.Collection
}

func NewMongoUserPreferenceRepository(db *mongo.Database) *MongoUserPreferenceRepository {
	return &MongoUserPreferenceRepository{
		collection: db.Collection("user_preferences"),
	}
}

func (r *MongoUserPreferenceRepository) Get(ctx context.Context, userID string) (*domain.UserPreferences, error) {
	var prefs domain.UserPreferences
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&prefs)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Defaults apply
		}
		return nil, err
	}
	return &prefs, nil
}

func (r *MongoUserPreferenceRepository) Upsert(ctx context.Context, prefs *domain.UserPreferences) error {
	prefs.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"show_extra_weight": prefs.ShowExtraWeight,
			"updated_at":        prefs.UpdatedAt,
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": prefs.UserID}, update, options.Update().SetUpsert(true))
	return err
}
